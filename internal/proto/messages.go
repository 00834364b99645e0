package proto

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// authServiceFile mirrors auth_service.proto:
//
//	syntax = "proto3";
//	package auth_service;
//
//	message VerifyTokenRequest { string token = 1; }
//	message VerifyTokenResponse {
//	  bool valid = 1;
//	  string message = 2;
//	  string email = 3;
//	}
//
//	service AuthService {
//	  rpc VerifyToken(VerifyTokenRequest) returns (VerifyTokenResponse);
//	}
var authServiceFile = &descriptorpb.FileDescriptorProto{
	Name:    proto.String("auth_service.proto"),
	Package: proto.String("auth_service"),
	Syntax:  proto.String("proto3"),
	MessageType: []*descriptorpb.DescriptorProto{
		{
			Name: proto.String("VerifyTokenRequest"),
			Field: []*descriptorpb.FieldDescriptorProto{
				scalarField("token", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			},
		},
		{
			Name: proto.String("VerifyTokenResponse"),
			Field: []*descriptorpb.FieldDescriptorProto{
				scalarField("valid", 1, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
				scalarField("message", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("email", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			},
		},
	},
	Service: []*descriptorpb.ServiceDescriptorProto{
		{
			Name: proto.String("AuthService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				{
					Name:       proto.String("VerifyToken"),
					InputType:  proto.String(".auth_service.VerifyTokenRequest"),
					OutputType: proto.String(".auth_service.VerifyTokenResponse"),
				},
			},
		},
	},
}

func scalarField(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		JsonName: proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     typ.Enum(),
	}
}

var (
	// File_auth_service_proto is the descriptor of auth_service.proto.
	File_auth_service_proto protoreflect.FileDescriptor

	verifyTokenRequestDesc  protoreflect.MessageDescriptor
	verifyTokenResponseDesc protoreflect.MessageDescriptor

	fieldToken   protoreflect.FieldDescriptor
	fieldValid   protoreflect.FieldDescriptor
	fieldMessage protoreflect.FieldDescriptor
	fieldEmail   protoreflect.FieldDescriptor
)

func init() {
	fd, err := protodesc.NewFile(authServiceFile, new(protoregistry.Files))
	if err != nil {
		panic(fmt.Sprintf("build auth_service.proto descriptor: %v", err))
	}
	File_auth_service_proto = fd

	msgs := fd.Messages()
	verifyTokenRequestDesc = msgs.ByName("VerifyTokenRequest")
	verifyTokenResponseDesc = msgs.ByName("VerifyTokenResponse")

	fieldToken = verifyTokenRequestDesc.Fields().ByName("token")
	fieldValid = verifyTokenResponseDesc.Fields().ByName("valid")
	fieldMessage = verifyTokenResponseDesc.Fields().ByName("message")
	fieldEmail = verifyTokenResponseDesc.Fields().ByName("email")
}

// VerifyTokenRequest is auth_service.VerifyTokenRequest.
type VerifyTokenRequest struct {
	*dynamicpb.Message
}

func NewVerifyTokenRequest(token string) *VerifyTokenRequest {
	m := &VerifyTokenRequest{dynamicpb.NewMessage(verifyTokenRequestDesc)}
	m.Set(fieldToken, protoreflect.ValueOfString(token))
	return m
}

func (m *VerifyTokenRequest) GetToken() string {
	if m == nil || m.Message == nil {
		return ""
	}
	return m.Get(fieldToken).String()
}

// VerifyTokenResponse is auth_service.VerifyTokenResponse.
type VerifyTokenResponse struct {
	*dynamicpb.Message
}

// VerifyTokenResult is the decoded form of a VerifyTokenResponse.
type VerifyTokenResult struct {
	Valid   bool
	Message string
	Email   string
}

func NewVerifyTokenResponse(r VerifyTokenResult) *VerifyTokenResponse {
	m := &VerifyTokenResponse{dynamicpb.NewMessage(verifyTokenResponseDesc)}
	m.Set(fieldValid, protoreflect.ValueOfBool(r.Valid))
	m.Set(fieldMessage, protoreflect.ValueOfString(r.Message))
	m.Set(fieldEmail, protoreflect.ValueOfString(r.Email))
	return m
}

// Result decodes m. A nil message decodes to the zero value.
func (m *VerifyTokenResponse) Result() VerifyTokenResult {
	if m == nil || m.Message == nil {
		return VerifyTokenResult{}
	}
	return VerifyTokenResult{
		Valid:   m.Get(fieldValid).Bool(),
		Message: m.Get(fieldMessage).String(),
		Email:   m.Get(fieldEmail).String(),
	}
}
