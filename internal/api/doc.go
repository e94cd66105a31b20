// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts HTTP to the generation service and maps
// service errors onto status codes and safe client messages.
package api
