package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/common"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"google.golang.org/grpc/metadata"
)

const (
	msgTokenValid    = "Token is valid"
	msgTokenNotValid = "Token is not valid"
)

// VerifyToken never fails at the RPC level: every rejection is reported as
// valid=false. The token is taken from the request or, when that is empty,
// from the access_token metadata entry.
func (s *GRPCServer) VerifyToken(ctx context.Context, req *pb.VerifyTokenRequest) (*pb.VerifyTokenResponse, error) {
	token := req.GetToken()
	if token == "" {
		token = tokenFromMetadata(ctx)
	}

	claims, err := s.verifier.VerifyToken(ctx, token)
	if err != nil {
		if common.KindOf(err) == common.KindUnexpected {
			s.logger.Error(ctx, "verify token failed", "error", err)
		}
		return pb.NewVerifyTokenResponse(pb.VerifyTokenResult{Message: msgTokenNotValid}), nil
	}

	return pb.NewVerifyTokenResponse(pb.VerifyTokenResult{
		Valid:   true,
		Message: msgTokenValid,
		Email:   claims.Subject,
	}), nil
}

func tokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AccessTokenHeaderName)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
