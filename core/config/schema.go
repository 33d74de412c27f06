/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Tablegrid Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Message names of the widget configuration schema
const (
	TableConfigMessage  = "tablegrid.TableConfig"
	ColumnConfigMessage = "tablegrid.ColumnConfig"
	schemaPath          = "tablegrid/config.proto"
)

type fieldType = descriptorpb.FieldDescriptorProto_Type

const (
	typeString  = descriptorpb.FieldDescriptorProto_TYPE_STRING
	typeBool    = descriptorpb.FieldDescriptorProto_TYPE_BOOL
	typeInt32   = descriptorpb.FieldDescriptorProto_TYPE_INT32
	typeMessage = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
)

func optional(name string, number int32, typ fieldType) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Type:   typ.Enum(),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
	}
}

func withDefault(fd *descriptorpb.FieldDescriptorProto, value string) *descriptorpb.FieldDescriptorProto {
	fd.DefaultValue = proto.String(value)
	return fd
}

func repeated(name string, number int32, typ fieldType) *descriptorpb.FieldDescriptorProto {
	fd := optional(name, number, typ)
	fd.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return fd
}

func message(fd *descriptorpb.FieldDescriptorProto, typeName string) *descriptorpb.FieldDescriptorProto {
	fd.TypeName = proto.String("." + typeName)
	return fd
}

// schemaFile describes the widget configuration. There is no generated code
// for it; textproto is parsed into dynamic messages of this schema.
func schemaFile() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(schemaPath),
		Package: proto.String("tablegrid"),
		Syntax:  proto.String("proto2"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("TableConfig"),
				Field: []*descriptorpb.FieldDescriptorProto{
					optional("name", 1, typeString),
					message(optional("data_source", 2, typeMessage), "tablegrid.DataSourceConfig"),
					message(repeated("columns", 3, typeMessage), ColumnConfigMessage),
					optional("dynamic_column", 4, typeBool),
					repeated("dynamic_column_config", 5, typeString),
					withDefault(optional("page_size", 6, typeInt32), "10"),
					withDefault(optional("current", 7, typeInt32), "1"),
					optional("total", 8, typeInt32),
					optional("row_color", 9, typeString),
					message(repeated("sort", 10, typeMessage), "tablegrid.SortConfig"),
					optional("view_mode", 11, typeBool),
					optional("view_mode_resizable", 12, typeBool),
					optional("hide_header", 13, typeBool),
					optional("hide_bordered", 14, typeBool),
					withDefault(optional("size", 15, typeString), "middle"),
					withDefault(optional("show_data_load_spinner", 16, typeBool), "true"),
					optional("loading", 17, typeBool),
					repeated("bound_events", 18, typeString),
					message(optional("toolbar", 19, typeMessage), "tablegrid.ToolbarConfig"),
				},
			},
			{
				Name: proto.String("ColumnConfig"),
				Field: []*descriptorpb.FieldDescriptorProto{
					optional("key", 1, typeString),
					optional("title", 2, typeString),
					optional("data_index", 3, typeString),
					optional("width", 4, typeInt32),
					optional("hide", 5, typeBool),
					optional("order", 6, typeInt32),
					optional("sortable", 7, typeBool),
					optional("editable", 8, typeBool),
				},
			},
			{
				Name: proto.String("SortConfig"),
				Field: []*descriptorpb.FieldDescriptorProto{
					optional("column", 1, typeString),
					optional("desc", 2, typeBool),
				},
			},
			{
				Name: proto.String("ToolbarConfig"),
				Field: []*descriptorpb.FieldDescriptorProto{
					withDefault(optional("position", 1, typeString), "below"),
					withDefault(optional("show_refresh", 2, typeBool), "true"),
					withDefault(optional("show_download", 3, typeBool), "true"),
					optional("show_filter", 4, typeBool),
					optional("column_setting", 5, typeBool),
				},
			},
			{
				Name: proto.String("DataSourceConfig"),
				Field: []*descriptorpb.FieldDescriptorProto{
					optional("name", 1, typeString),
					optional("source_type", 2, typeString),
					optional("file_path", 3, typeString),
					optional("id_field", 4, typeString),
					optional("delimiter", 5, typeString),
					withDefault(optional("has_header", 6, typeBool), "true"),
				},
			},
		},
	}
}

// NewRegistry returns a registry holding the configuration schema
func NewRegistry() (*protoregistry.Files, error) {
	fd, err := protodesc.NewFile(schemaFile(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build config schema: %w", err)
	}
	registry := new(protoregistry.Files)
	if err := registry.RegisterFile(fd); err != nil {
		return nil, fmt.Errorf("failed to register config schema: %w", err)
	}
	return registry, nil
}

// tableDescriptor looks up the TableConfig message in registry
func tableDescriptor(registry *protoregistry.Files) (protoreflect.MessageDescriptor, error) {
	desc, err := registry.FindDescriptorByName(TableConfigMessage)
	if err != nil {
		return nil, fmt.Errorf("message %q not found in registry: %w", TableConfigMessage, err)
	}
	md, ok := desc.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, fmt.Errorf("%q is not a message type", TableConfigMessage)
	}
	return md, nil
}
