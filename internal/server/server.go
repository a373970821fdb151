// Package server answers lattice queries over gRPC. The service is declared
// in lattice.proto and served with dynamic messages, so no generated code is
// involved.
package server

import (
	"context"
	"errors"
	"net"

	"github.com/jhump/protoreflect/desc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/funvibe/gradual/internal/source"
	"github.com/funvibe/gradual/internal/symbols"
	"github.com/funvibe/gradual/internal/typeexpr"
	"github.com/funvibe/gradual/internal/typesystem"
)

// callFile names the pseudo file that call diagnostics point into.
const callFile = "rpc"

// Server answers lattice queries against one frozen table. Requests are
// served concurrently; lattice answers are memoized across requests.
type Server struct {
	table *symbols.Table
	cache *typesystem.LatticeCache
	grpc  *grpc.Server
}

// New registers the lattice service for table on a fresh gRPC server.
func New(table *symbols.Table, opts ...grpc.ServerOption) (*Server, error) {
	if !table.IsFrozen() {
		return nil, errors.New("server: symbol table must be frozen")
	}
	sd, err := loadService()
	if err != nil {
		return nil, err
	}

	s := &Server{
		table: table,
		cache: typesystem.NewLatticeCache(table),
		grpc:  grpc.NewServer(opts...),
	}
	gdesc := &grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*interface{})(nil),
		Metadata:    protoFile,
	}
	for _, md := range sd.GetMethods() {
		gdesc.Methods = append(gdesc.Methods, grpc.MethodDesc{
			MethodName: md.GetName(),
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				handler := func(ctx context.Context, req interface{}) (interface{}, error) {
					return srv.(*Server).answer(md, req.(*dynamicpb.Message))
				}
				in := newMessage(md.GetInputType())
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return handler(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(md.GetName())}
				return interceptor(ctx, in, info, handler)
			},
		})
	}
	s.grpc.RegisterService(gdesc, s)
	return s, nil
}

// Serve accepts connections on lis until Stop or GracefulStop is called.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// GracefulStop stops accepting connections and waits for pending requests.
func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}

// Stop closes every connection immediately.
func (s *Server) Stop() {
	s.grpc.Stop()
}

func (s *Server) answer(md *desc.MethodDescriptor, in *dynamicpb.Message) (*dynamicpb.Message, error) {
	out := newMessage(md.GetOutputType())
	switch md.GetName() {
	case "Subtype", "Equiv":
		t1, t2, err := s.pair(in)
		if err != nil {
			return nil, err
		}
		var ok bool
		if md.GetName() == "Subtype" {
			ok = s.cache.IsSubType(t1, t2)
		} else {
			ok = s.cache.Equiv(t1, t2)
		}
		setField(out, "result", protoreflect.ValueOfBool(ok))
	case "Lub", "Glb":
		t1, t2, err := s.pair(in)
		if err != nil {
			return nil, err
		}
		var t typesystem.Type
		if md.GetName() == "Lub" {
			t = s.cache.Lub(t1, t2)
		} else {
			t = s.cache.Glb(t1, t2)
		}
		setField(out, "type", protoreflect.ValueOfString(typesystem.Describe(s.table, t)))
	case "Call":
		if err := s.call(in, out); err != nil {
			return nil, err
		}
	case "ArgType":
		recv, err := s.parse("receiver", getString(in, "receiver"))
		if err != nil {
			return nil, err
		}
		index := int(in.Get(field(in, "index")).Int())
		if index < 0 {
			return nil, status.Errorf(codes.InvalidArgument, "negative argument index %d", index)
		}
		t := typesystem.GetCallArgumentType(s.table, recv, getString(in, "method"), index)
		setField(out, "type", protoreflect.ValueOfString(typesystem.Describe(s.table, t)))
	default:
		return nil, status.Errorf(codes.Unimplemented, "method %s not implemented", md.GetName())
	}
	return out, nil
}

func (s *Server) parse(what, src string) (typesystem.Type, error) {
	t, err := typeexpr.Parse(s.table, src)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%s: %v", what, err)
	}
	return t, nil
}

func (s *Server) pair(in protoreflect.Message) (typesystem.Type, typesystem.Type, error) {
	t1, err := s.parse("left", getString(in, "left"))
	if err != nil {
		return nil, nil, err
	}
	t2, err := s.parse("right", getString(in, "right"))
	if err != nil {
		return nil, nil, err
	}
	return t1, t2, nil
}

func (s *Server) call(in, out protoreflect.Message) error {
	recvSrc := getString(in, "receiver")
	recv, err := s.parse("receiver", recvSrc)
	if err != nil {
		return err
	}
	method := getString(in, "method")
	callLoc := source.NewLoc(callFile, 1, len(recvSrc)+2, len(method))

	argSrcs := getStrings(in, "args")
	args := make([]typesystem.TypeAndOrigins, len(argSrcs))
	for i, src := range argSrcs {
		t, err := s.parse("argument", src)
		if err != nil {
			return err
		}
		args[i] = typesystem.NewTypeAndOrigins(t, callLoc)
	}

	res := typesystem.DispatchCall(s.table, recv, method, callLoc, args, nil)
	setField(out, "type", protoreflect.ValueOfString(typesystem.Describe(s.table, res.Type)))
	diags := out.Mutable(field(out, "diagnostics")).List()
	for _, d := range res.Errors {
		elem := diags.NewElement()
		dm := elem.Message()
		setField(dm, "code", protoreflect.ValueOfString(string(d.Code)))
		setField(dm, "message", protoreflect.ValueOfString(d.Header))
		setField(dm, "line", protoreflect.ValueOfInt32(int32(d.Loc.Line)))
		setField(dm, "column", protoreflect.ValueOfInt32(int32(d.Loc.Column)))
		diags.Append(elem)
	}
	return nil
}
