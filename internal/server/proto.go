package server

import (
	_ "embed"
	"fmt"
	"strconv"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

const (
	protoFile = "gradual/v1/lattice.proto"

	// ServiceName is the fully qualified name of the lattice service.
	ServiceName = "gradual.v1.Lattice"
)

//go:embed lattice.proto
var latticeProto string

var loadService = sync.OnceValues(func() (*desc.ServiceDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{protoFile: latticeProto}),
	}
	fds, err := parser.ParseFiles(protoFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", protoFile, err)
	}
	sd := fds[0].FindService(ServiceName)
	if sd == nil {
		return nil, fmt.Errorf("service %s not found in %s", ServiceName, protoFile)
	}
	return sd, nil
})

// Methods lists the RPC names of the lattice service in declaration order.
func Methods() ([]string, error) {
	sd, err := loadService()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, md := range sd.GetMethods() {
		names = append(names, md.GetName())
	}
	return names, nil
}

func findMethod(name string) (*desc.MethodDescriptor, error) {
	sd, err := loadService()
	if err != nil {
		return nil, err
	}
	md := sd.FindMethodByName(name)
	if md == nil {
		return nil, fmt.Errorf("unknown method %s", name)
	}
	return md, nil
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func newMessage(md *desc.MessageDescriptor) *dynamicpb.Message {
	return dynamicpb.NewMessage(md.UnwrapMessage())
}

func field(m protoreflect.Message, name string) protoreflect.FieldDescriptor {
	fd := m.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		panic(fmt.Sprintf("message %s has no field %s", m.Descriptor().FullName(), name))
	}
	return fd
}

func getString(m protoreflect.Message, name string) string {
	return m.Get(field(m, name)).String()
}

func getStrings(m protoreflect.Message, name string) []string {
	list := m.Get(field(m, name)).List()
	out := make([]string, list.Len())
	for i := range out {
		out[i] = list.Get(i).String()
	}
	return out
}

func setField(m protoreflect.Message, name string, v protoreflect.Value) {
	m.Set(field(m, name), v)
}

// fillPositional assigns args to the fields of m in declaration order. A
// repeated string field takes every remaining argument.
func fillPositional(m protoreflect.Message, args []string) error {
	fields := m.Descriptor().Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if fd.IsList() {
			if fd.Kind() != protoreflect.StringKind {
				return fmt.Errorf("field %s: unsupported list kind %s", fd.Name(), fd.Kind())
			}
			list := m.Mutable(fd).List()
			for _, a := range args {
				list.Append(protoreflect.ValueOfString(a))
			}
			args = nil
			continue
		}
		if len(args) == 0 {
			return fmt.Errorf("missing argument %s", fd.Name())
		}
		switch kindOf(fd) {
		case descriptorpb.FieldDescriptorProto_TYPE_STRING:
			m.Set(fd, protoreflect.ValueOfString(args[0]))
		case descriptorpb.FieldDescriptorProto_TYPE_INT32:
			n, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("argument %s: %q is not an integer", fd.Name(), args[0])
			}
			m.Set(fd, protoreflect.ValueOfInt32(int32(n)))
		default:
			return fmt.Errorf("field %s: unsupported kind %s", fd.Name(), fd.Kind())
		}
		args = args[1:]
	}
	if len(args) > 0 {
		return fmt.Errorf("too many arguments: %v", args)
	}
	return nil
}

func kindOf(fd protoreflect.FieldDescriptor) descriptorpb.FieldDescriptorProto_Type {
	return descriptorpb.FieldDescriptorProto_Type(fd.Kind())
}
