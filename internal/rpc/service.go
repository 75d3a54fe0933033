package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "daybook.v1.JournalService"

const (
	MethodRegister     = "/" + ServiceName + "/Register"
	MethodGetSalt      = "/" + ServiceName + "/GetSalt"
	MethodLogin        = "/" + ServiceName + "/Login"
	MethodRefreshToken = "/" + ServiceName + "/RefreshToken"
	MethodPing         = "/" + ServiceName + "/Ping"
	MethodWhoAmI       = "/" + ServiceName + "/WhoAmI"
	MethodQueryEntries = "/" + ServiceName + "/QueryEntries"
	MethodUpsertEntry  = "/" + ServiceName + "/UpsertEntry"
	MethodDeleteEntry  = "/" + ServiceName + "/DeleteEntry"
	MethodUploadBlob   = "/" + ServiceName + "/UploadBlob"
	MethodDeleteBlobs  = "/" + ServiceName + "/DeleteBlobs"
)

// PublicMethods do not require an access token.
var PublicMethods = map[string]struct{}{
	MethodRegister:     {},
	MethodGetSalt:      {},
	MethodLogin:        {},
	MethodRefreshToken: {},
	MethodPing:         {},
}

type JournalServiceServer interface {
	Register(context.Context, *RegisterRequest) (*Empty, error)
	GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error)
	Login(context.Context, *LoginRequest) (*TokenPair, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokenPair, error)
	Ping(context.Context, *Empty) (*PingResponse, error)
	WhoAmI(context.Context, *Empty) (*WhoAmIResponse, error)
	QueryEntries(context.Context, *QueryEntriesRequest) (*QueryEntriesResponse, error)
	UpsertEntry(context.Context, *UpsertEntryRequest) (*UpsertEntryResponse, error)
	DeleteEntry(context.Context, *DeleteEntryRequest) (*Empty, error)
	UploadBlob(context.Context, *UploadBlobRequest) (*UploadBlobResponse, error)
	DeleteBlobs(context.Context, *DeleteBlobsRequest) (*DeleteBlobsResponse, error)
}

// UnimplementedJournalServiceServer answers every method with
// codes.Unimplemented; embed it to implement a subset.
type UnimplementedJournalServiceServer struct{}

func (UnimplementedJournalServiceServer) Register(context.Context, *RegisterRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedJournalServiceServer) GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSalt not implemented")
}
func (UnimplementedJournalServiceServer) Login(context.Context, *LoginRequest) (*TokenPair, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedJournalServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*TokenPair, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedJournalServiceServer) Ping(context.Context, *Empty) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedJournalServiceServer) WhoAmI(context.Context, *Empty) (*WhoAmIResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method WhoAmI not implemented")
}
func (UnimplementedJournalServiceServer) QueryEntries(context.Context, *QueryEntriesRequest) (*QueryEntriesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method QueryEntries not implemented")
}
func (UnimplementedJournalServiceServer) UpsertEntry(context.Context, *UpsertEntryRequest) (*UpsertEntryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpsertEntry not implemented")
}
func (UnimplementedJournalServiceServer) DeleteEntry(context.Context, *DeleteEntryRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteEntry not implemented")
}
func (UnimplementedJournalServiceServer) UploadBlob(context.Context, *UploadBlobRequest) (*UploadBlobResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UploadBlob not implemented")
}
func (UnimplementedJournalServiceServer) DeleteBlobs(context.Context, *DeleteBlobsRequest) (*DeleteBlobsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteBlobs not implemented")
}

func RegisterJournalServiceServer(s grpc.ServiceRegistrar, srv JournalServiceServer) {
	s.RegisterService(&JournalServiceDesc, srv)
}

// unary adapts a typed server method to grpc.MethodHandler.
func unary[Req any, Resp any](fullMethod string, call func(JournalServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(JournalServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(JournalServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var JournalServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*JournalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(MethodRegister, JournalServiceServer.Register)},
		{MethodName: "GetSalt", Handler: unary(MethodGetSalt, JournalServiceServer.GetSalt)},
		{MethodName: "Login", Handler: unary(MethodLogin, JournalServiceServer.Login)},
		{MethodName: "RefreshToken", Handler: unary(MethodRefreshToken, JournalServiceServer.RefreshToken)},
		{MethodName: "Ping", Handler: unary(MethodPing, JournalServiceServer.Ping)},
		{MethodName: "WhoAmI", Handler: unary(MethodWhoAmI, JournalServiceServer.WhoAmI)},
		{MethodName: "QueryEntries", Handler: unary(MethodQueryEntries, JournalServiceServer.QueryEntries)},
		{MethodName: "UpsertEntry", Handler: unary(MethodUpsertEntry, JournalServiceServer.UpsertEntry)},
		{MethodName: "DeleteEntry", Handler: unary(MethodDeleteEntry, JournalServiceServer.DeleteEntry)},
		{MethodName: "UploadBlob", Handler: unary(MethodUploadBlob, JournalServiceServer.UploadBlob)},
		{MethodName: "DeleteBlobs", Handler: unary(MethodDeleteBlobs, JournalServiceServer.DeleteBlobs)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "daybook/v1/journal.json",
}

// JournalServiceClient is the typed client stub. All calls are sent with
// the JSON codec.
type JournalServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewJournalServiceClient(cc grpc.ClientConnInterface) *JournalServiceClient {
	return &JournalServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *JournalServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodRegister, in, opts)
}

func (c *JournalServiceClient) GetSalt(ctx context.Context, in *GetSaltRequest, opts ...grpc.CallOption) (*GetSaltResponse, error) {
	return invoke[GetSaltResponse](ctx, c.cc, MethodGetSalt, in, opts)
}

func (c *JournalServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenPair, error) {
	return invoke[TokenPair](ctx, c.cc, MethodLogin, in, opts)
}

func (c *JournalServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenPair, error) {
	return invoke[TokenPair](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *JournalServiceClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *JournalServiceClient) WhoAmI(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*WhoAmIResponse, error) {
	return invoke[WhoAmIResponse](ctx, c.cc, MethodWhoAmI, in, opts)
}

func (c *JournalServiceClient) QueryEntries(ctx context.Context, in *QueryEntriesRequest, opts ...grpc.CallOption) (*QueryEntriesResponse, error) {
	return invoke[QueryEntriesResponse](ctx, c.cc, MethodQueryEntries, in, opts)
}

func (c *JournalServiceClient) UpsertEntry(ctx context.Context, in *UpsertEntryRequest, opts ...grpc.CallOption) (*UpsertEntryResponse, error) {
	return invoke[UpsertEntryResponse](ctx, c.cc, MethodUpsertEntry, in, opts)
}

func (c *JournalServiceClient) DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteEntry, in, opts)
}

func (c *JournalServiceClient) UploadBlob(ctx context.Context, in *UploadBlobRequest, opts ...grpc.CallOption) (*UploadBlobResponse, error) {
	return invoke[UploadBlobResponse](ctx, c.cc, MethodUploadBlob, in, opts)
}

func (c *JournalServiceClient) DeleteBlobs(ctx context.Context, in *DeleteBlobsRequest, opts ...grpc.CallOption) (*DeleteBlobsResponse, error) {
	return invoke[DeleteBlobsResponse](ctx, c.cc, MethodDeleteBlobs, in, opts)
}
