package client

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/netx"
	"github.com/dmitrijs2005/daybook/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// journalAPI is the subset of the generated-style stub GRPCClient uses.
type journalAPI interface {
	Register(ctx context.Context, in *rpc.RegisterRequest, opts ...grpc.CallOption) (*rpc.Empty, error)
	GetSalt(ctx context.Context, in *rpc.GetSaltRequest, opts ...grpc.CallOption) (*rpc.GetSaltResponse, error)
	Login(ctx context.Context, in *rpc.LoginRequest, opts ...grpc.CallOption) (*rpc.TokenPair, error)
	RefreshToken(ctx context.Context, in *rpc.RefreshTokenRequest, opts ...grpc.CallOption) (*rpc.TokenPair, error)
	Ping(ctx context.Context, in *rpc.Empty, opts ...grpc.CallOption) (*rpc.PingResponse, error)
	WhoAmI(ctx context.Context, in *rpc.Empty, opts ...grpc.CallOption) (*rpc.WhoAmIResponse, error)
	QueryEntries(ctx context.Context, in *rpc.QueryEntriesRequest, opts ...grpc.CallOption) (*rpc.QueryEntriesResponse, error)
	UpsertEntry(ctx context.Context, in *rpc.UpsertEntryRequest, opts ...grpc.CallOption) (*rpc.UpsertEntryResponse, error)
	DeleteEntry(ctx context.Context, in *rpc.DeleteEntryRequest, opts ...grpc.CallOption) (*rpc.Empty, error)
	UploadBlob(ctx context.Context, in *rpc.UploadBlobRequest, opts ...grpc.CallOption) (*rpc.UploadBlobResponse, error)
	DeleteBlobs(ctx context.Context, in *rpc.DeleteBlobsRequest, opts ...grpc.CallOption) (*rpc.DeleteBlobsResponse, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      journalAPI
	store       TokenStore
	httpClient  *http.Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	s.accessToken = access
	s.refreshToken = refresh
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	return s.store.SaveTokens(ctx, access, refresh)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	access, refresh := s.tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	if st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" || method == rpc.MethodRefreshToken {
		return err
	}

	pair, rerr := s.client.RefreshToken(ctx, &rpc.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return rerr
	}
	if serr := s.setTokens(ctx, pair.AccessToken, pair.RefreshToken); serr != nil {
		return serr
	}

	// tokens rotated, retry once with the new access token
	return invoker(withAccessToken(ctx, pair.AccessToken), method, req, reply, cc, opts...)
}

// NewGRPCClient connects to endpointURL. store may be nil; when set, saved
// tokens are loaded immediately and rotated tokens are written back.
func NewGRPCClient(ctx context.Context, endpointURL string, store TokenStore, dialOpts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, store: store, httpClient: http.DefaultClient}

	if store != nil {
		access, refresh, err := store.LoadTokens(ctx)
		if err != nil {
			return nil, err
		}
		c.accessToken, c.refreshToken = access, refresh
	}

	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, dialOpts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewJournalServiceClient(conn)
	return c, nil
}

// SetHTTPClient replaces the client used for presigned blob uploads.
func (s *GRPCClient) SetHTTPClient(hc *http.Client) {
	s.httpClient = hc
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, userName string, salt []byte, verifier []byte) error {
	req := &rpc.RegisterRequest{Username: userName, Salt: salt, Verifier: verifier}

	if _, err := s.client.Register(ctx, req); err != nil {
		return s.mapError("register", err)
	}
	return nil
}

func (s *GRPCClient) GetSalt(ctx context.Context, userName string) ([]byte, error) {
	resp, err := s.client.GetSalt(ctx, &rpc.GetSaltRequest{Username: userName})
	if err != nil {
		return nil, s.mapError("get salt", err)
	}
	return resp.Salt, nil
}

func (s *GRPCClient) Login(ctx context.Context, userName string, verifier []byte) (*Session, error) {
	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Username: userName, Verifier: verifier})
	if err != nil {
		return nil, s.mapError("login", err)
	}

	if err := s.setTokens(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, err
	}

	return &Session{UserID: resp.UserID, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

// Logout forgets the in-memory tokens.
func (s *GRPCClient) Logout(ctx context.Context) error {
	return s.setTokens(ctx, "", "")
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpc.Empty{})
	if err != nil {
		return s.mapError("ping", err)
	}
	if resp.Status != "OK" {
		return &RemoteError{Op: "ping", Err: ErrUnavailable}
	}
	return nil
}

func (s *GRPCClient) CurrentUser(ctx context.Context) (string, error) {
	if access, _ := s.tokens(); access == "" {
		return "", &RemoteError{Op: "whoami", Err: ErrNotSignedIn}
	}

	resp, err := s.client.WhoAmI(ctx, &rpc.Empty{})
	if err != nil {
		return "", s.mapError("whoami", err)
	}
	if resp.UserID == "" {
		return "", &RemoteError{Op: "whoami", Err: ErrNotSignedIn}
	}
	return resp.UserID, nil
}

func (s *GRPCClient) QueryEntries(ctx context.Context, userID string, since string) ([]models.CloudEntry, string, error) {
	resp, err := s.client.QueryEntries(ctx, &rpc.QueryEntriesRequest{UserID: userID, UpdatedAfter: since})
	if err != nil {
		return nil, "", s.mapError("query entries", err)
	}

	out := make([]models.CloudEntry, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		out = append(out, models.CloudEntry{
			CloudID:      e.ID,
			UserID:       e.UserID,
			Date:         e.Date,
			Storyworthy:  e.Storyworthy,
			Thankful:     e.Thankful,
			PhotoURL:     e.PhotoURL,
			ThumbnailURL: e.ThumbnailURL,
			CreatedAt:    e.CreatedAt,
			ModifiedAt:   e.ModifiedAt,
			UpdatedAt:    e.UpdatedAt,
		})
	}
	return out, resp.Watermark, nil
}

func (s *GRPCClient) UpsertEntry(ctx context.Context, e models.CloudEntry) (string, string, error) {
	req := &rpc.UpsertEntryRequest{
		UserID:       e.UserID,
		Date:         e.Date,
		Storyworthy:  e.Storyworthy,
		Thankful:     e.Thankful,
		PhotoURL:     e.PhotoURL,
		ThumbnailURL: e.ThumbnailURL,
		CreatedAt:    e.CreatedAt,
		ModifiedAt:   e.ModifiedAt,
	}

	resp, err := s.client.UpsertEntry(ctx, req)
	if err != nil {
		return "", "", s.mapError("upsert entry", err)
	}
	return resp.ID, resp.ModifiedAt, nil
}

func (s *GRPCClient) DeleteEntry(ctx context.Context, userID, date string) error {
	if _, err := s.client.DeleteEntry(ctx, &rpc.DeleteEntryRequest{UserID: userID, Date: date}); err != nil {
		return s.mapError("delete entry", err)
	}
	return nil
}

const blobContentType = "image/jpeg"

func (s *GRPCClient) UploadBlob(ctx context.Context, path string, data []byte) (string, error) {
	resp, err := s.client.UploadBlob(ctx, &rpc.UploadBlobRequest{Path: path, ContentType: blobContentType})
	if err != nil {
		return "", s.mapError("upload blob", err)
	}

	if err := netx.PutPresigned(ctx, s.httpClient, resp.UploadURL, data, blobContentType); err != nil {
		return "", &RemoteError{Op: "upload blob", Err: err}
	}
	return resp.PublicURL, nil
}

func (s *GRPCClient) DeleteBlobs(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	if _, err := s.client.DeleteBlobs(ctx, &rpc.DeleteBlobsRequest{Paths: paths}); err != nil {
		return s.mapError("delete blobs", err)
	}
	return nil
}

func (s *GRPCClient) mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &RemoteError{Op: op, Err: ErrUnavailable}
	}

	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return &RemoteError{Op: op, Err: ErrUnauthorized}
	case codes.PermissionDenied:
		return &RemoteError{Op: op, Err: ErrPermissionDenied}
	case codes.Unavailable, codes.DeadlineExceeded:
		return &RemoteError{Op: op, Err: ErrUnavailable}
	case codes.AlreadyExists:
		return &RemoteError{Op: op, Err: common.ErrorAlreadyExists}
	case codes.NotFound:
		return &RemoteError{Op: op, Err: common.ErrorNotFound}
	default:
		return &RemoteError{Op: op, Err: err}
	}
}
