/*
Package piholesdk provides a client for the Pi-hole v6 REST API.

# Overview

A Client holds the base address of the Pi-hole web server and a SessionStore.
Authenticate exchanges the web interface password for a session id and CSRF
token, which are attached as the X-FTL-SID and X-FTL-CSRF headers to every
authenticated call until EndSession clears them:

	client := piholesdk.NewClient("http://pi.hole:8080")

	if _, err := client.Authenticate(ctx, password); err != nil {
		return err
	}
	defer client.EndSession(ctx)

	groups, err := client.GetGroup(ctx, "Unresolved")

# Responses

Pi-hole answers every request with either the endpoint's success body or a
body of the form

	{"error": {"key": "...", "message": "...", "hint": "..."}, "took": 0.0}

independently of the HTTP status. Responses are matched against the success
shape first and the error shape second. A match requires the body to decode
and its required fields to be present, so an error body never passes for an
empty success. 204 No Content is a success with a zero value.

# Errors

  - ErrAuthenticationRequired: an authenticated call on an anonymous session.
    Nothing is sent.
  - *APIError: the server answered with the error shape.
  - *TransportError: the request could not be exchanged.
  - *MalformedResponseError: the body matched neither shape.

There are no retries and no automatic re-authentication.
*/
package piholesdk
