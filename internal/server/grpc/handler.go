package grpc

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/rpc"
	"github.com/dmitrijs2005/daybook/internal/server/models"
	"github.com/dmitrijs2005/daybook/internal/server/services"
)

// toStatus maps service errors onto gRPC codes. Anything unrecognised is
// logged and reported as a bare internal error.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, common.ErrorInvalidDate):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	s.logger.Error(ctx, "request failed", "op", op, "error", err)
	return status.Error(codes.Internal, "internal error")
}

// caller resolves the user a request acts for. An explicit userID must be
// the authenticated one.
func caller(ctx context.Context, userID string) (string, error) {
	id, ok := userIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	if userID != "" && userID != id {
		return "", status.Error(codes.PermissionDenied, "user mismatch")
	}
	return id, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.Empty, error) {
	u, err := s.users.Register(ctx, req.Username, req.Salt, req.Verifier)
	if err != nil {
		return nil, s.toStatus(ctx, "register", err)
	}
	s.logger.Info(ctx, "Registered", "username", u.UserName, "user_id", u.ID)
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GetSalt(ctx context.Context, req *rpc.GetSaltRequest) (*rpc.GetSaltResponse, error) {
	salt, err := s.users.GetSalt(ctx, req.Username)
	if err != nil {
		return nil, s.toStatus(ctx, "get salt", err)
	}
	return &rpc.GetSaltResponse{Salt: salt}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.TokenPair, error) {
	tokens, err := s.users.Login(ctx, req.Username, req.Verifier)
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}
	return &rpc.TokenPair{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken, UserID: tokens.UserID}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.TokenPair, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, "refresh token", err)
	}
	return &rpc.TokenPair{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken, UserID: tokens.UserID}, nil
}

func (s *GRPCServer) Ping(context.Context, *rpc.Empty) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *rpc.Empty) (*rpc.WhoAmIResponse, error) {
	id, err := caller(ctx, "")
	if err != nil {
		return nil, err
	}
	u, err := s.users.WhoAmI(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// token outlived its account
			return nil, status.Error(codes.Unauthenticated, "unknown user")
		}
		return nil, s.toStatus(ctx, "whoami", err)
	}
	return &rpc.WhoAmIResponse{UserID: u.ID, Username: u.UserName}, nil
}

func toRPCEntry(e *models.Entry) rpc.Entry {
	return rpc.Entry{
		ID:           e.ID,
		UserID:       e.UserID,
		Date:         e.Date,
		Storyworthy:  e.Storyworthy,
		Thankful:     e.Thankful,
		PhotoURL:     e.PhotoURL,
		ThumbnailURL: e.ThumbnailURL,
		CreatedAt:    models.FormatTime(e.CreatedAt),
		ModifiedAt:   models.FormatTime(e.ModifiedAt),
		UpdatedAt:    models.FormatWatermark(e.UpdatedAt),
	}
}

func (s *GRPCServer) QueryEntries(ctx context.Context, req *rpc.QueryEntriesRequest) (*rpc.QueryEntriesResponse, error) {
	id, err := caller(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	rows, err := s.entries.Query(ctx, id, req.UpdatedAfter)
	if err != nil {
		return nil, s.toStatus(ctx, "query entries", err)
	}

	// an empty page leaves the caller's watermark where it was
	watermark := req.UpdatedAfter
	var latest time.Time
	out := make([]rpc.Entry, 0, len(rows))
	for _, e := range rows {
		out = append(out, toRPCEntry(e))
		if e.UpdatedAt.After(latest) {
			latest = e.UpdatedAt
		}
	}
	if !latest.IsZero() {
		watermark = models.FormatWatermark(latest)
	}
	return &rpc.QueryEntriesResponse{Entries: out, Watermark: watermark}, nil
}

func (s *GRPCServer) UpsertEntry(ctx context.Context, req *rpc.UpsertEntryRequest) (*rpc.UpsertEntryResponse, error) {
	id, err := caller(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	created, err := models.ParseTime(req.CreatedAt)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "bad created_at")
	}
	modified, err := models.ParseTime(req.ModifiedAt)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "bad modified_at")
	}

	e := &models.Entry{
		UserID:       id,
		Date:         req.Date,
		Storyworthy:  req.Storyworthy,
		Thankful:     req.Thankful,
		PhotoURL:     req.PhotoURL,
		ThumbnailURL: req.ThumbnailURL,
		CreatedAt:    created,
		ModifiedAt:   modified,
	}
	if err := s.entries.Upsert(ctx, e); err != nil {
		return nil, s.toStatus(ctx, "upsert entry", err)
	}
	return &rpc.UpsertEntryResponse{ID: e.ID, ModifiedAt: models.FormatTime(e.ModifiedAt)}, nil
}

func (s *GRPCServer) DeleteEntry(ctx context.Context, req *rpc.DeleteEntryRequest) (*rpc.Empty, error) {
	id, err := caller(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.entries.Delete(ctx, id, req.Date); err != nil {
		return nil, s.toStatus(ctx, "delete entry", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) UploadBlob(ctx context.Context, req *rpc.UploadBlobRequest) (*rpc.UploadBlobResponse, error) {
	id, err := caller(ctx, "")
	if err != nil {
		return nil, err
	}
	put, public, err := s.entries.UploadURLs(ctx, id, req.Path, req.ContentType)
	if err != nil {
		return nil, s.toStatus(ctx, "upload blob", err)
	}
	return &rpc.UploadBlobResponse{UploadURL: put, PublicURL: public}, nil
}

func (s *GRPCServer) DeleteBlobs(ctx context.Context, req *rpc.DeleteBlobsRequest) (*rpc.DeleteBlobsResponse, error) {
	id, err := caller(ctx, "")
	if err != nil {
		return nil, err
	}
	n, err := s.entries.DeleteBlobs(ctx, id, req.Paths)
	if err != nil {
		return nil, s.toStatus(ctx, "delete blobs", err)
	}
	return &rpc.DeleteBlobsResponse{Deleted: n}, nil
}
