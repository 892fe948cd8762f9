package server

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/glucose-reports/internal/common"
)

const (
	ReportServiceName  = "glucosereports.v1.ReportService"
	extractFullMethod  = "/" + ReportServiceName + "/Extract"
	maxGRPCReportBytes = 64 << 20
)

// ReportServiceServer extracts an uploaded report. The request carries the raw PDF bytes
// and the response is {"vendor", "status", "record"}.
type ReportServiceServer interface {
	Extract(ctx context.Context, in *wrapperspb.BytesValue) (*structpb.Struct, error)
}

// ReportServiceDesc is registered without generated stubs; the messages are well-known types.
var ReportServiceDesc = grpc.ServiceDesc{
	ServiceName: ReportServiceName,
	HandlerType: (*ReportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Extract", Handler: extractHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "glucosereports/v1/report.proto",
}

func RegisterReportServiceServer(s grpc.ServiceRegistrar, srv ReportServiceServer) {
	s.RegisterService(&ReportServiceDesc, srv)
}

func extractHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportServiceServer).Extract(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: extractFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReportServiceServer).Extract(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// ReportServiceClient calls ReportService over a client connection.
type ReportServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewReportServiceClient(cc grpc.ClientConnInterface) *ReportServiceClient {
	return &ReportServiceClient{cc: cc}
}

func (c *ReportServiceClient) Extract(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, extractFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ReportService implements ReportServiceServer on top of an Extractor.
type ReportService struct {
	uploads uploads
	logger  *slog.Logger
}

func NewReportService(ex Extractor, tempDir string, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &ReportService{uploads: uploads{ex: ex, dir: tempDir, logger: logger}, logger: logger}
}

func (s *ReportService) Extract(ctx context.Context, in *wrapperspb.BytesValue) (*structpb.Struct, error) {
	ctx, requestID := common.EnsureRequestID(ctx)
	data := in.GetValue()
	if len(data) == 0 {
		s.logger.Error("extract request missing report", "request_id", requestID)
		return nil, common.InvalidArgumentError("report bytes are required")
	}
	if len(data) > maxGRPCReportBytes {
		return nil, common.InvalidArgumentErrorf("report exceeds %d bytes", maxGRPCReportBytes)
	}

	res, err := s.uploads.scan(ctx, requestID, bytes.NewReader(data))
	if err != nil {
		s.logger.Error("grpc.extract.failed", "request_id", requestID, "err", err)
		return nil, common.GRPCError(err)
	}

	rec, err := recordMap(res.Record)
	if err != nil {
		return nil, common.InternalError("encode record")
	}
	out, err := structpb.NewStruct(map[string]any{
		"requestId": requestID,
		"vendor":    string(res.Vendor),
		"status":    string(res.Status),
		"record":    rec,
	})
	if err != nil {
		return nil, common.InternalError("encode response")
	}
	return out, nil
}
