// package server hosts the localhost callback listener used by the
// optional browser-driven authorization capture.
//
// The listener exists purely to receive one redirect: it validates the
// state parameter, hands the authorization code back over a channel, and
// shuts down. The token exchange itself stays with the auth session.
package server
