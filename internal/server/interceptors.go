package server

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/api"
)

// loggingInterceptor assigns a request id (reusing the caller's when one
// is sent), echoes it in the response header and logs one line per call.
func loggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		id := requestID(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(api.RequestIDKey, id))

		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", id),
		}
		switch code {
		case codes.OK:
			log.Info("rpc", fields...)
		case codes.Internal, codes.Unknown:
			log.Error("rpc", append(fields, zap.Error(err))...)
		default:
			log.Warn("rpc", append(fields, zap.String("error", status.Convert(err).Message()))...)
		}
		return resp, err
	}
}

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(api.RequestIDKey); len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	return uuid.NewString()
}

// newValidator reports field names by their JSON tag so violations match
// the wire shape.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationInterceptor rejects requests whose input fails its struct
// tags.  The handler, and therefore the store, is never reached.
func validationInterceptor(v *validator.Validate) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if reflect.ValueOf(req).Kind() == reflect.Pointer && reflect.ValueOf(req).Elem().Kind() == reflect.Struct {
			if err := v.Struct(req); err != nil {
				return nil, validationStatus(err)
			}
		}
		return handler(ctx, req)
	}
}

// validationStatus converts validator errors to InvalidArgument with a
// BadRequest detail listing every violated field.
func validationStatus(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return status.Errorf(codes.InvalidArgument, "invalid input: %v", err)
	}
	br := &errdetails.BadRequest{}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := violationMessage(fe)
		msgs = append(msgs, msg)
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       fe.Field(),
			Description: msg,
		})
	}
	st := status.New(codes.InvalidArgument, "invalid input: "+strings.Join(msgs, "; "))
	if withDetails, derr := st.WithDetails(br); derr == nil {
		st = withDetails
	}
	return st.Err()
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
