// Package control exposes the reminder daemon over gRPC.
//
// The service alarm.reminder.v1.ControlService has two unary methods:
//   - Reset(google.protobuf.Struct{hostname, username}) returns google.protobuf.Struct,
//   - Status(google.protobuf.Empty) returns google.protobuf.Struct.
//
// Messages are protobuf well-known types, so no generated code is required;
// the service descriptor is declared by hand in service.go.
package control
