package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"streamflix/internal/catalog"
)

// Client calls the catalog service. Raw methods return the wire messages;
// the typed ones decode into catalog items.
type Client struct {
	conn grpc.ClientConnInterface
}

// Dial opens a plaintext connection to addr.
func Dial(addr string, opts ...grpc.DialOption) (*Client, *grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, nil, err
	}
	return NewClient(conn), conn, nil
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) FeaturedRaw(ctx context.Context) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod("Featured"), &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRaw(ctx context.Context, id string) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod("Get"), wrapperspb.String(id), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ByCategoryRaw(ctx context.Context, tag string) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.conn.Invoke(ctx, fullMethod("ByCategory"), wrapperspb.String(tag), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchRaw(ctx context.Context, query string) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.conn.Invoke(ctx, fullMethod("Search"), wrapperspb.String(query), out); err != nil {
		return nil, err
	}
	return out, nil
}

// Featured returns catalog.ErrItemNotFound when the server has none.
func (c *Client) Featured(ctx context.Context) (catalog.MediaItem, error) {
	s, err := c.FeaturedRaw(ctx)
	if err != nil {
		return catalog.MediaItem{}, mapErr(err)
	}
	return FromStruct(s)
}

func (c *Client) Get(ctx context.Context, id string) (catalog.MediaItem, error) {
	s, err := c.GetRaw(ctx, id)
	if err != nil {
		return catalog.MediaItem{}, mapErr(err)
	}
	return FromStruct(s)
}

func (c *Client) ByCategory(ctx context.Context, tag string) ([]catalog.MediaItem, error) {
	l, err := c.ByCategoryRaw(ctx, tag)
	if err != nil {
		return nil, err
	}
	return fromList(l)
}

func (c *Client) Search(ctx context.Context, query string) ([]catalog.MediaItem, error) {
	l, err := c.SearchRaw(ctx, query)
	if err != nil {
		return nil, err
	}
	return fromList(l)
}

func mapErr(err error) error {
	if status.Code(err) == codes.NotFound {
		return errors.Join(catalog.ErrItemNotFound, err)
	}
	return err
}
