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

// Package config loads widget configurations from textproto files. The
// schema is built at runtime and messages are parsed dynamically, so the
// loader needs no generated code.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Loader parses widget configurations using a registry holding the schema
type Loader struct {
	registry *protoregistry.Files
	desc     protoreflect.MessageDescriptor
	log      *logrus.Entry
}

// NewLoader creates a Loader with the built-in schema
func NewLoader() (*Loader, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	desc, err := tableDescriptor(registry)
	if err != nil {
		return nil, err
	}
	return &Loader{
		registry: registry,
		desc:     desc,
		log:      logrus.WithField("component", "config"),
	}, nil
}

// Load reads and parses a textproto file
func (l *Loader) Load(path string) (*TableConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	l.log.WithFields(logrus.Fields{"path": path, "widget": cfg.Name}).Debug("loaded config")
	return cfg, nil
}

// Parse parses textproto content into a TableConfig
func (l *Loader) Parse(data []byte) (*TableConfig, error) {
	msg := dynamicpb.NewMessage(l.desc)
	opts := prototext.UnmarshalOptions{
		Resolver: l,
	}
	if err := opts.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to parse textproto: %w", err)
	}
	cfg := fromMessage(msg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Format renders cfg back to textproto
func (l *Loader) Format(cfg *TableConfig) (string, error) {
	msg := dynamicpb.NewMessage(l.desc)
	cfg.toMessage(msg)
	data, err := prototext.MarshalOptions{Multiline: true}.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}
	return string(data), nil
}

// FindMessageByName implements protoregistry.MessageTypeResolver
func (l *Loader) FindMessageByName(name protoreflect.FullName) (protoreflect.MessageType, error) {
	desc, err := l.registry.FindDescriptorByName(name)
	if err != nil {
		return nil, err
	}
	msgDesc, ok := desc.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, fmt.Errorf("%q is not a message type", name)
	}
	return dynamicpb.NewMessageType(msgDesc), nil
}

// FindMessageByURL implements protoregistry.MessageTypeResolver
func (l *Loader) FindMessageByURL(url string) (protoreflect.MessageType, error) {
	name := protoreflect.FullName(strings.TrimPrefix(url, "type.googleapis.com/"))
	return l.FindMessageByName(name)
}

// FindExtensionByName implements protoregistry.ExtensionTypeResolver
func (l *Loader) FindExtensionByName(name protoreflect.FullName) (protoreflect.ExtensionType, error) {
	return nil, protoregistry.NotFound
}

// FindExtensionByNumber implements protoregistry.ExtensionTypeResolver
func (l *Loader) FindExtensionByNumber(message protoreflect.FullName, field protoreflect.FieldNumber) (protoreflect.ExtensionType, error) {
	return nil, protoregistry.NotFound
}
