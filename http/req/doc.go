/*
Package req normalizes an HTTP request for the handler bound to its route.

An Adapter builds a Request holding the path params, query params and headers
of the *http.Request, each as ordered Params looked up ignoring case,
along with its body coerced into the type the route declares.

A BodyDecoder is chosen once per route from the declared type:

	string                 => the raw text
	bool, ints, floats     => parsed with strconv
	any                    => decoded structured data, or the raw text should that fail
	anything else          => decoded by the trailhead.Serializer and validated

A route declaring no type leaves Request.Body nil, whatever the request carries;
Request.RawBody still holds the text read,
and Request.BindBody decodes and validates it onto a struct.

Validation uses "validate" struct tags from github.com/go-playground/validator/v10;
failures are ValidationErrors, which unwrap to trailhead.ErrNotValid.
Request.BindQuery binds query params onto a struct with github.com/gorilla/schema.
*/
package req
