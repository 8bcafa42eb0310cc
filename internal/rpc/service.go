// Package rpc exposes the catalog read surface over gRPC. Messages are
// protobuf well-known types, so no generated code is needed.
package rpc

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"streamflix/internal/catalog"
)

const ServiceName = "streamflix.catalog.v1.Catalog"

// Catalog is what the service reads from.
type Catalog interface {
	Featured() (catalog.MediaItem, bool)
	ByID(id string) (catalog.MediaItem, bool)
	ByCategory(tag string) []catalog.MediaItem
	Search(query string) []catalog.MediaItem
}

// CatalogServer is the server API of the catalog service.
type CatalogServer interface {
	Featured(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Get(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ByCategory(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	Search(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
}

type server struct {
	catalog Catalog
	logger  hclog.Logger
}

var _ CatalogServer = (*server)(nil)

func NewServer(cat Catalog, logger hclog.Logger) CatalogServer {
	return &server{catalog: cat, logger: logger}
}

// Register adds the catalog service to gs.
func Register(gs *grpc.Server, srv CatalogServer) {
	gs.RegisterService(&serviceDesc, srv)
}

func (s *server) Featured(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	it, ok := s.catalog.Featured()
	if !ok {
		return nil, status.Error(codes.NotFound, "no featured title")
	}
	return s.encode(it)
}

func (s *server) Get(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	it, ok := s.catalog.ByID(req.GetValue())
	if !ok {
		return nil, status.Errorf(codes.NotFound, "title %q not found", req.GetValue())
	}
	return s.encode(it)
}

func (s *server) ByCategory(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	return s.encodeList(s.catalog.ByCategory(req.GetValue()))
}

func (s *server) Search(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	return s.encodeList(s.catalog.Search(req.GetValue()))
}

func (s *server) encode(it catalog.MediaItem) (*structpb.Struct, error) {
	out, err := ToStruct(it)
	if err != nil {
		s.logger.Error("encode item", "id", it.ID, "error", err)
		return nil, status.Error(codes.Internal, "encode item")
	}
	return out, nil
}

func (s *server) encodeList(items []catalog.MediaItem) (*structpb.ListValue, error) {
	out, err := toList(items)
	if err != nil {
		s.logger.Error("encode items", "error", err)
		return nil, status.Error(codes.Internal, "encode items")
	}
	return out, nil
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func featuredHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).Featured(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("Featured")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServer).Featured(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// stringHandler builds the handler of a method taking a StringValue.
func stringHandler(name string, call func(CatalogServer, context.Context, *wrapperspb.StringValue) (any, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(wrapperspb.StringValue)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CatalogServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CatalogServer), ctx, req.(*wrapperspb.StringValue))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Featured", Handler: featuredHandler},
		stringHandler("Get", func(s CatalogServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
			return s.Get(ctx, in)
		}),
		stringHandler("ByCategory", func(s CatalogServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
			return s.ByCategory(ctx, in)
		}),
		stringHandler("Search", func(s CatalogServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
			return s.Search(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "streamflix/catalog/v1/catalog.proto",
}
