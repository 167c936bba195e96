// Package api defines the request and response messages of the tripjapan.v1
// services. Messages travel as JSON; field names follow the lowerCamelCase
// convention of protobuf JSON so browser clients can share them.
package api
