package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/daybook/internal/client/models"
	metarepo "github.com/dmitrijs2005/daybook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/daybook/internal/client/storage"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/rpc"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

/*************
 * Fake rpc client
 *************/

type fakeRPC struct {
	lastRefreshTokenReq *rpc.RefreshTokenRequest
	lastGetSaltReq      *rpc.GetSaltRequest
	lastLoginReq        *rpc.LoginRequest
	lastRegisterReq     *rpc.RegisterRequest
	lastQueryReq        *rpc.QueryEntriesRequest
	lastUpsertReq       *rpc.UpsertEntryRequest
	lastDeleteReq       *rpc.DeleteEntryRequest
	lastUploadReq       *rpc.UploadBlobRequest
	lastDeleteBlobsReq  *rpc.DeleteBlobsRequest
	whoAmICalls         int

	refreshTokenResp *rpc.TokenPair
	refreshTokenErr  error

	pingResp *rpc.PingResponse
	pingErr  error

	getSaltResp *rpc.GetSaltResponse
	getSaltErr  error

	loginResp *rpc.TokenPair
	loginErr  error

	registerErr error

	whoAmIResp *rpc.WhoAmIResponse
	whoAmIErr  error

	queryResp *rpc.QueryEntriesResponse
	queryErr  error

	upsertResp *rpc.UpsertEntryResponse
	upsertErr  error

	deleteErr error

	uploadResp *rpc.UploadBlobResponse
	uploadErr  error

	deleteBlobsErr error
}

func (f *fakeRPC) Register(ctx context.Context, in *rpc.RegisterRequest, opts ...grpc.CallOption) (*rpc.Empty, error) {
	f.lastRegisterReq = in
	return &rpc.Empty{}, f.registerErr
}
func (f *fakeRPC) GetSalt(ctx context.Context, in *rpc.GetSaltRequest, opts ...grpc.CallOption) (*rpc.GetSaltResponse, error) {
	f.lastGetSaltReq = in
	return f.getSaltResp, f.getSaltErr
}
func (f *fakeRPC) Login(ctx context.Context, in *rpc.LoginRequest, opts ...grpc.CallOption) (*rpc.TokenPair, error) {
	f.lastLoginReq = in
	return f.loginResp, f.loginErr
}
func (f *fakeRPC) RefreshToken(ctx context.Context, in *rpc.RefreshTokenRequest, opts ...grpc.CallOption) (*rpc.TokenPair, error) {
	f.lastRefreshTokenReq = in
	return f.refreshTokenResp, f.refreshTokenErr
}
func (f *fakeRPC) Ping(ctx context.Context, in *rpc.Empty, opts ...grpc.CallOption) (*rpc.PingResponse, error) {
	return f.pingResp, f.pingErr
}
func (f *fakeRPC) WhoAmI(ctx context.Context, in *rpc.Empty, opts ...grpc.CallOption) (*rpc.WhoAmIResponse, error) {
	f.whoAmICalls++
	return f.whoAmIResp, f.whoAmIErr
}
func (f *fakeRPC) QueryEntries(ctx context.Context, in *rpc.QueryEntriesRequest, opts ...grpc.CallOption) (*rpc.QueryEntriesResponse, error) {
	f.lastQueryReq = in
	return f.queryResp, f.queryErr
}
func (f *fakeRPC) UpsertEntry(ctx context.Context, in *rpc.UpsertEntryRequest, opts ...grpc.CallOption) (*rpc.UpsertEntryResponse, error) {
	f.lastUpsertReq = in
	return f.upsertResp, f.upsertErr
}
func (f *fakeRPC) DeleteEntry(ctx context.Context, in *rpc.DeleteEntryRequest, opts ...grpc.CallOption) (*rpc.Empty, error) {
	f.lastDeleteReq = in
	return &rpc.Empty{}, f.deleteErr
}
func (f *fakeRPC) UploadBlob(ctx context.Context, in *rpc.UploadBlobRequest, opts ...grpc.CallOption) (*rpc.UploadBlobResponse, error) {
	f.lastUploadReq = in
	return f.uploadResp, f.uploadErr
}
func (f *fakeRPC) DeleteBlobs(ctx context.Context, in *rpc.DeleteBlobsRequest, opts ...grpc.CallOption) (*rpc.DeleteBlobsResponse, error) {
	f.lastDeleteBlobsReq = in
	return &rpc.DeleteBlobsResponse{Deleted: len(in.Paths)}, f.deleteBlobsErr
}

type memTokens struct {
	access, refresh string
	saves           int
}

func (m *memTokens) LoadTokens(context.Context) (string, string, error) {
	return m.access, m.refresh, nil
}

func (m *memTokens) SaveTokens(_ context.Context, a, r string) error {
	m.access, m.refresh = a, r
	m.saves++
	return nil
}

/*************
 * accessTokenInterceptor tests
 *************/

func TestInterceptor_RefreshesTokenOnExpiredAndRetries(t *testing.T) {
	f := &fakeRPC{refreshTokenResp: &rpc.TokenPair{AccessToken: "A2", RefreshToken: "R2"}}
	store := &memTokens{}
	c := &GRPCClient{client: f, store: store, accessToken: "A1", refreshToken: "R1"}

	callCount := 0
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		callCount++
		md, _ := metadata.FromOutgoingContext(ctx)
		toks := md.Get(common.AccessTokenHeaderName)
		require.Len(t, toks, 1)

		if callCount == 1 {
			require.Equal(t, "A1", toks[0])
			return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		require.Equal(t, "A2", toks[0])
		return nil
	}

	err := c.accessTokenInterceptor(context.Background(), rpc.MethodQueryEntries, nil, nil, nil, invoker)
	require.NoError(t, err)
	require.Equal(t, 2, callCount)
	require.Equal(t, "A2", c.accessToken)
	require.Equal(t, "R2", c.refreshToken)
	require.Equal(t, "R1", f.lastRefreshTokenReq.RefreshToken)
	require.Equal(t, "A2", store.access)
	require.Equal(t, 1, store.saves)
}

func TestInterceptor_NoRefreshIfNoRefreshToken(t *testing.T) {
	f := &fakeRPC{}
	c := &GRPCClient{client: f, accessToken: "A1"}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	err := c.accessTokenInterceptor(context.Background(), rpc.MethodWhoAmI, nil, nil, nil, invoker)
	require.Error(t, err)
	require.Nil(t, f.lastRefreshTokenReq)
}

func TestInterceptor_IgnoresOtherErrors(t *testing.T) {
	c := &GRPCClient{accessToken: "X"}
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Internal, "boom")
	}
	err := c.accessTokenInterceptor(context.Background(), rpc.MethodPing, nil, nil, nil, invoker)
	require.Error(t, err)
}

func TestInterceptor_UnauthenticatedButDifferentMessage_NoRefresh(t *testing.T) {
	f := &fakeRPC{}
	c := &GRPCClient{client: f, accessToken: "X", refreshToken: "R"}
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, "some other reason")
	}
	err := c.accessTokenInterceptor(context.Background(), rpc.MethodQueryEntries, nil, nil, nil, invoker)
	require.Error(t, err)
	require.Nil(t, f.lastRefreshTokenReq)
}

func TestInterceptor_OmitsHeaderWithoutToken(t *testing.T) {
	c := &GRPCClient{}
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Empty(t, md.Get(common.AccessTokenHeaderName))
		return nil
	}
	require.NoError(t, c.accessTokenInterceptor(context.Background(), rpc.MethodPing, nil, nil, nil, invoker))
}

/*************
 * mapError tests
 *************/

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	require.ErrorIs(t, c.mapError("op", status.Error(codes.Unauthenticated, "x")), ErrUnauthorized)
	require.ErrorIs(t, c.mapError("op", status.Error(codes.PermissionDenied, "x")), ErrPermissionDenied)
	require.ErrorIs(t, c.mapError("op", status.Error(codes.Unavailable, "x")), ErrUnavailable)
	require.ErrorIs(t, c.mapError("op", status.Error(codes.DeadlineExceeded, "x")), ErrUnavailable)
	require.ErrorIs(t, c.mapError("op", context.DeadlineExceeded), ErrUnavailable)
	require.ErrorIs(t, c.mapError("op", status.Error(codes.AlreadyExists, "x")), common.ErrorAlreadyExists)
	require.ErrorIs(t, c.mapError("op", status.Error(codes.NotFound, "x")), common.ErrorNotFound)

	var re *RemoteError
	require.True(t, errors.As(c.mapError("upsert", errors.New("plain")), &re))
	require.Equal(t, "upsert", re.Op)
	require.ErrorContains(t, re, "remote upsert: plain")
}

/*************
 * auth tests
 *************/

func TestPing(t *testing.T) {
	c := &GRPCClient{client: &fakeRPC{pingResp: &rpc.PingResponse{Status: "OK"}}}
	require.NoError(t, c.Ping(context.Background()))

	c = &GRPCClient{client: &fakeRPC{pingResp: &rpc.PingResponse{Status: "NOT_OK"}}}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)

	c = &GRPCClient{client: &fakeRPC{pingErr: status.Error(codes.Unavailable, "down")}}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestGetSalt(t *testing.T) {
	f := &fakeRPC{getSaltResp: &rpc.GetSaltResponse{Salt: []byte{1, 2, 3}}}
	c := &GRPCClient{client: f}
	salt, err := c.GetSalt(context.Background(), "u")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, salt)
	require.Equal(t, "u", f.lastGetSaltReq.Username)
}

func TestLogin_SetsAndPersistsTokens(t *testing.T) {
	f := &fakeRPC{loginResp: &rpc.TokenPair{AccessToken: "A", RefreshToken: "R", UserID: "user-1"}}
	store := &memTokens{}
	c := &GRPCClient{client: f, store: store}

	sess, err := c.Login(context.Background(), "u", []byte{9})
	require.NoError(t, err)
	require.Equal(t, "user-1", sess.UserID)
	require.Equal(t, "A", c.accessToken)
	require.Equal(t, "R", c.refreshToken)
	require.Equal(t, "A", store.access)
	require.Equal(t, []byte{9}, f.lastLoginReq.Verifier)

	require.NoError(t, c.Logout(context.Background()))
	require.Empty(t, store.access)
}

func TestRegister_MapsError(t *testing.T) {
	f := &fakeRPC{registerErr: status.Error(codes.AlreadyExists, "taken")}
	c := &GRPCClient{client: f}
	err := c.Register(context.Background(), "u", []byte{1}, []byte{2})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
	require.Equal(t, []byte{1}, f.lastRegisterReq.Salt)
	require.Equal(t, []byte{2}, f.lastRegisterReq.Verifier)
}

func TestCurrentUser(t *testing.T) {
	f := &fakeRPC{whoAmIResp: &rpc.WhoAmIResponse{UserID: "user-1"}}

	c := &GRPCClient{client: f}
	_, err := c.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrNotSignedIn)
	require.Zero(t, f.whoAmICalls, "no network call without a token")

	c = &GRPCClient{client: f, accessToken: "A"}
	id, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "user-1", id)
}

/*************
 * entry and blob tests
 *************/

func TestQueryEntries_MapsRows(t *testing.T) {
	f := &fakeRPC{queryResp: &rpc.QueryEntriesResponse{
		Entries: []rpc.Entry{
			{ID: "c1", UserID: "u", Date: "2024-01-02", Storyworthy: "s", Thankful: "t", PhotoURL: "p", ThumbnailURL: "th",
				CreatedAt: "2024-01-02T10:00:00.000Z", ModifiedAt: "2024-01-02T11:00:00.000Z", UpdatedAt: "2024-01-05T00:00:00.000001Z"},
		},
		Watermark: "2024-01-05T00:00:00.000001Z",
	}}
	c := &GRPCClient{client: f}

	got, watermark, err := c.QueryEntries(context.Background(), "u", "2024-01-01T00:00:00.000000Z")
	require.NoError(t, err)
	require.Equal(t, "2024-01-01T00:00:00.000000Z", f.lastQueryReq.UpdatedAfter)
	require.Equal(t, "2024-01-05T00:00:00.000001Z", watermark)
	require.Equal(t, []models.CloudEntry{{
		CloudID: "c1", UserID: "u", Date: "2024-01-02", Storyworthy: "s", Thankful: "t", PhotoURL: "p",
		ThumbnailURL: "th", CreatedAt: "2024-01-02T10:00:00.000Z", ModifiedAt: "2024-01-02T11:00:00.000Z",
		UpdatedAt: "2024-01-05T00:00:00.000001Z",
	}}, got)
}

func TestUpsertEntry(t *testing.T) {
	f := &fakeRPC{upsertResp: &rpc.UpsertEntryResponse{ID: "c9", ModifiedAt: "2024-01-02T11:00:00.000Z"}}
	c := &GRPCClient{client: f}

	id, mod, err := c.UpsertEntry(context.Background(), models.CloudEntry{UserID: "u", Date: "2024-01-02", Storyworthy: "s"})
	require.NoError(t, err)
	require.Equal(t, "c9", id)
	require.Equal(t, "2024-01-02T11:00:00.000Z", mod)
	require.Equal(t, "2024-01-02", f.lastUpsertReq.Date)

	f.upsertErr = status.Error(codes.PermissionDenied, "other user")
	_, _, err = c.UpsertEntry(context.Background(), models.CloudEntry{UserID: "x"})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUploadBlob_PutsToPresignedURL(t *testing.T) {
	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	f := &fakeRPC{uploadResp: &rpc.UploadBlobResponse{UploadURL: ts.URL + "/put", PublicURL: "https://cdn/media/u/2024-01-02.jpg"}}
	c := &GRPCClient{client: f, httpClient: ts.Client()}

	url, err := c.UploadBlob(context.Background(), "u/2024-01-02.jpg", []byte("jpeg"))
	require.NoError(t, err)
	require.Equal(t, "https://cdn/media/u/2024-01-02.jpg", url)
	require.Equal(t, "u/2024-01-02.jpg", f.lastUploadReq.Path)
	require.Equal(t, "image/jpeg", f.lastUploadReq.ContentType)
	require.Equal(t, []byte("jpeg"), gotBody)
}

func TestUploadBlob_PutFailureIsRemoteError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	f := &fakeRPC{uploadResp: &rpc.UploadBlobResponse{UploadURL: ts.URL, PublicURL: "x"}}
	c := &GRPCClient{client: f, httpClient: ts.Client()}

	_, err := c.UploadBlob(context.Background(), "u/a.jpg", []byte("jpeg"))
	var re *RemoteError
	require.True(t, errors.As(err, &re))
}

func TestDeleteEntryAndBlobs(t *testing.T) {
	f := &fakeRPC{}
	c := &GRPCClient{client: f}

	require.NoError(t, c.DeleteEntry(context.Background(), "u", "2024-01-02"))
	require.Equal(t, "2024-01-02", f.lastDeleteReq.Date)

	require.NoError(t, c.DeleteBlobs(context.Background(), nil))
	require.Nil(t, f.lastDeleteBlobsReq)

	require.NoError(t, c.DeleteBlobs(context.Background(), []string{"u/a.jpg", "u/a_thumb.jpg"}))
	require.Len(t, f.lastDeleteBlobsReq.Paths, 2)
}

func TestMetadataTokenStore(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, storage.InMemory, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewMetadataTokenStore(metarepo.NewSQLiteRepository(db))
	a, r, err := store.LoadTokens(ctx)
	require.NoError(t, err)
	require.Empty(t, a)
	require.Empty(t, r)

	require.NoError(t, store.SaveTokens(ctx, "A", "R"))
	a, r, err = store.LoadTokens(ctx)
	require.NoError(t, err)
	require.Equal(t, "A", a)
	require.Equal(t, "R", r)
}
