package client

import (
	"context"

	pb "github.com/dmitrijs2005/gophauth/internal/proto"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	VerifyToken(ctx context.Context, token string) (pb.VerifyTokenResult, error)
}
