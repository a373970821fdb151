package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Client talks to a lattice server.
type Client struct {
	conn *grpc.ClientConn
}

// Diagnostic is a call diagnostic as reported by the server.
type Diagnostic struct {
	Code    string
	Message string
	Line    int
	Column  int
}

// CallReply is the answer to a Call request.
type CallReply struct {
	Type        string
	Diagnostics []Diagnostic
}

// Dial connects to target without transport security. Extra options are
// applied after the default ones.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Request invokes method with its request fields taken positionally from
// args and returns the raw reply.
func (c *Client) Request(ctx context.Context, method string, args []string) (proto.Message, error) {
	return c.invoke(ctx, method, func(req protoreflect.Message) error {
		return fillPositional(req, args)
	})
}

// FormatReply renders a reply returned by Request as JSON.
func FormatReply(reply proto.Message) string {
	return protojson.MarshalOptions{EmitUnpopulated: true}.Format(reply)
}

func (c *Client) invoke(ctx context.Context, method string, fill func(protoreflect.Message) error) (*dynamicpb.Message, error) {
	md, err := findMethod(method)
	if err != nil {
		return nil, err
	}
	req := newMessage(md.GetInputType())
	if err := fill(req); err != nil {
		return nil, err
	}
	resp := newMessage(md.GetOutputType())
	if err := c.conn.Invoke(ctx, fullMethod(method), req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) pair(ctx context.Context, method, left, right string) (*dynamicpb.Message, error) {
	return c.invoke(ctx, method, func(req protoreflect.Message) error {
		setField(req, "left", protoreflect.ValueOfString(left))
		setField(req, "right", protoreflect.ValueOfString(right))
		return nil
	})
}

func (c *Client) boolPair(ctx context.Context, method, left, right string) (bool, error) {
	resp, err := c.pair(ctx, method, left, right)
	if err != nil {
		return false, err
	}
	return resp.Get(field(resp, "result")).Bool(), nil
}

func (c *Client) typePair(ctx context.Context, method, left, right string) (string, error) {
	resp, err := c.pair(ctx, method, left, right)
	if err != nil {
		return "", err
	}
	return getString(resp, "type"), nil
}

func (c *Client) Subtype(ctx context.Context, left, right string) (bool, error) {
	return c.boolPair(ctx, "Subtype", left, right)
}

func (c *Client) Equiv(ctx context.Context, left, right string) (bool, error) {
	return c.boolPair(ctx, "Equiv", left, right)
}

func (c *Client) Lub(ctx context.Context, left, right string) (string, error) {
	return c.typePair(ctx, "Lub", left, right)
}

func (c *Client) Glb(ctx context.Context, left, right string) (string, error) {
	return c.typePair(ctx, "Glb", left, right)
}

// Call dispatches method on receiver with the given argument types.
func (c *Client) Call(ctx context.Context, receiver, method string, args []string) (CallReply, error) {
	resp, err := c.invoke(ctx, "Call", func(req protoreflect.Message) error {
		setField(req, "receiver", protoreflect.ValueOfString(receiver))
		setField(req, "method", protoreflect.ValueOfString(method))
		list := req.Mutable(field(req, "args")).List()
		for _, a := range args {
			list.Append(protoreflect.ValueOfString(a))
		}
		return nil
	})
	if err != nil {
		return CallReply{}, err
	}

	reply := CallReply{Type: getString(resp, "type")}
	diags := resp.Get(field(resp, "diagnostics")).List()
	for i := 0; i < diags.Len(); i++ {
		dm := diags.Get(i).Message()
		reply.Diagnostics = append(reply.Diagnostics, Diagnostic{
			Code:    getString(dm, "code"),
			Message: getString(dm, "message"),
			Line:    int(dm.Get(field(dm, "line")).Int()),
			Column:  int(dm.Get(field(dm, "column")).Int()),
		})
	}
	return reply, nil
}

// ArgType returns the expected type of argument index of method.
func (c *Client) ArgType(ctx context.Context, receiver, method string, index int) (string, error) {
	resp, err := c.invoke(ctx, "ArgType", func(req protoreflect.Message) error {
		setField(req, "receiver", protoreflect.ValueOfString(receiver))
		setField(req, "method", protoreflect.ValueOfString(method))
		setField(req, "index", protoreflect.ValueOfInt32(int32(index)))
		return nil
	})
	if err != nil {
		return "", err
	}
	return getString(resp, "type"), nil
}
