/*
The resp package renders the results of HTTP handlers as responses
and maps the errors they return into a uniform JSON error body:

	{"Error": "<ResultCode>", "Message": "<optional>", "Data": <optional>}

A handler returns a Result, built with one of:

	Empty()
	Value(v)
	WithStatus(v, code)
	NoContent()

Responder.Render decides the content type and body from the type of the payload.
Responder.Err first calls an ErrorHook, if configured, and otherwise uses MapError.

A handler taking over the response with NewEventStream or NewChunkStream
writes the response itself; Render then does nothing and Err only logs.
*/
package resp
