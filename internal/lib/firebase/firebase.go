// Package firebase verifies Firebase ID tokens. The Firebase UID becomes
// the user ID.
package firebase

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var ErrInvalidToken = errors.New("invalid token")

type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Verifier struct {
	client IDTokenVerifier
}

// New builds a verifier from a service account file. An empty path falls
// back to application default credentials.
func New(ctx context.Context, credentialsFile string) (*Verifier, error) {
	const op = "firebase.New"

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return NewVerifier(client), nil
}

func NewVerifier(client IDTokenVerifier) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, idToken string) (string, error) {
	const op = "firebase.Verify"

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", op, ErrInvalidToken, err)
	}
	if token.UID == "" {
		return "", fmt.Errorf("%s: %w: empty uid", op, ErrInvalidToken)
	}

	return token.UID, nil
}
