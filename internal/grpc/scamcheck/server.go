package scamcheck

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
	"github.com/krxsh13/ScamGuard/internal/domain/services"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

// Server implements ScamCheckServer on top of the analysis service
type Server struct {
	analysis *services.AnalysisService
	logger   *logger.Logger
}

// NewServer creates a new gRPC server
func NewServer(analysis *services.AnalysisService, log *logger.Logger) *Server {
	return &Server{
		analysis: analysis,
		logger:   log.WithComponent("grpc-server"),
	}
}

// Register registers the server with a gRPC server
func (s *Server) Register(grpcServer *grpc.Server) {
	RegisterScamCheckServer(grpcServer, s)
}

// Analyze scores the text and returns the analysis record as a Struct
func (s *Server) Analyze(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	rec, err := s.analysis.Analyze(ctx, models.AnalysisRequest{
		Text:    req.GetValue(),
		Channel: channelFrom(ctx),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	out, err := recordStruct(rec)
	if err != nil {
		s.logger.Error().Err(err).Str("analysis_id", rec.ID.String()).Msg("failed to encode record")
		return nil, status.Error(codes.Internal, "failed to encode result")
	}
	return out, nil
}

func channelFrom(ctx context.Context) models.Channel {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return models.ChannelText
	}
	if v := md.Get(ChannelMetadataKey); len(v) > 0 {
		return models.ParseChannel(v[0])
	}
	return models.ChannelText
}

// recordStruct converts a record to the JSON shape the HTTP API returns
func recordStruct(rec *models.AnalysisRecord) (*structpb.Struct, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, services.ErrEmptyText), errors.Is(err, services.ErrTextTooLarge):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "analysis failed")
	}
}

// LoggingInterceptor logs unary calls. Request payloads are never logged.
func LoggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	log = log.WithComponent("grpc")
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		event := log.Info()
		if err != nil {
			event = log.Warn().Err(err)
		}
		event.
			Str("method", info.FullMethod).
			Str("code", status.Code(err).String()).
			Dur("duration", time.Since(start)).
			Msg("grpc call completed")

		return resp, err
	}
}
