// Package client talks to the auth server over gRPC.
//
// GRPCClient implements Client: VerifyToken asks the server whether a token
// is a valid, unrevoked access token, and Ping checks the standard health
// service. gRPC status codes are mapped to ErrUnavailable and
// ErrUnauthorized so callers can match them with errors.Is.
package client
