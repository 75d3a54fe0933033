package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/client/client"
	"github.com/dmitrijs2005/daybook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/daybook/internal/client/syncer"
	"github.com/dmitrijs2005/daybook/internal/cryptox"
)

// AuthService signs the user in and out of the sync backend.
//
// Only the argon2 verifier of the password reaches the server. Signing in
// kicks a sync; signing out drops the session and the pull watermark so the
// next account starts from a full pull. Signing in as a different account
// than the one the rows were last synced to makes every row pending again.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	IsSignedIn(ctx context.Context) (bool, error)
	Username(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
}

// WatermarkClearer is implemented by *syncer.Engine.
type WatermarkClearer interface {
	ClearWatermark(ctx context.Context) error
}

// SyncResetter is implemented by the entries repository.
type SyncResetter interface {
	ResetSync(ctx context.Context) error
}

type authService struct {
	client    client.Client
	meta      metadata.Repository
	rows      SyncResetter
	watermark WatermarkClearer
	kicker    Kicker
}

// NewAuthService builds an AuthService. c may be nil when no server is
// configured; remote operations then fail with syncer.ErrNotConfigured.
// watermark and kicker may be nil.
func NewAuthService(c client.Client, meta metadata.Repository, rows SyncResetter, watermark WatermarkClearer, kicker Kicker) AuthService {
	return &authService{client: c, meta: meta, rows: rows, watermark: watermark, kicker: kicker}
}

func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	if a.client == nil {
		return syncer.ErrNotConfigured
	}

	salt := cryptox.NewSalt()
	verifier := cryptox.VerifierFor(password, salt)

	if err := a.client.Register(ctx, username, salt, verifier); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	if a.client == nil {
		return syncer.ErrNotConfigured
	}

	salt, err := a.client.GetSalt(ctx, username)
	if err != nil {
		return fmt.Errorf("get salt error: %w", err)
	}

	sess, err := a.client.Login(ctx, username, cryptox.VerifierFor(password, salt))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := a.meta.Set(ctx, metadata.KeyUsername, []byte(username)); err != nil {
		return err
	}
	if err := a.meta.Set(ctx, metadata.KeyUserID, []byte(sess.UserID)); err != nil {
		return err
	}
	if err := a.adoptAccount(ctx, sess.UserID); err != nil {
		return err
	}

	if a.kicker != nil {
		a.kicker.Kick()
	}
	return nil
}

// adoptAccount resets the sync state of local rows when userID is not the
// account they were last synced to.
func (a *authService) adoptAccount(ctx context.Context, userID string) error {
	prev, err := metadata.GetString(ctx, a.meta, metadata.KeySyncedUserID)
	if err != nil {
		return err
	}
	if prev == userID {
		return nil
	}

	if a.rows != nil {
		if err := a.rows.ResetSync(ctx); err != nil {
			return fmt.Errorf("reset sync state: %w", err)
		}
	}
	if a.watermark != nil {
		if err := a.watermark.ClearWatermark(ctx); err != nil {
			return err
		}
	}
	return a.meta.Set(ctx, metadata.KeySyncedUserID, []byte(userID))
}

func (a *authService) Logout(ctx context.Context) error {
	var errs []error
	if a.client != nil {
		errs = append(errs, a.client.Logout(ctx))
	}
	errs = append(errs, a.meta.Delete(ctx, metadata.SessionKeys...))
	if a.watermark != nil {
		errs = append(errs, a.watermark.ClearWatermark(ctx))
	}
	return errors.Join(errs...)
}

func (a *authService) IsSignedIn(ctx context.Context) (bool, error) {
	return signedIn(ctx, a.meta)
}

func (a *authService) Username(ctx context.Context) (string, error) {
	return metadata.GetString(ctx, a.meta, metadata.KeyUsername)
}

func (a *authService) Ping(ctx context.Context) error {
	if a.client == nil {
		return syncer.ErrNotConfigured
	}
	return a.client.Ping(ctx)
}
