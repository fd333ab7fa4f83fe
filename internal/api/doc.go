// Package api handles incoming HTTP requests, request decoding and response
// formatting. It acts as an adapter between JSON clients and the services in
// internal/service: handlers decode bodies field by field so every type error
// is reported, call a service, and project domain records into the response
// shapes the clients expect.
package api
