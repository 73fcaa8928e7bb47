// package services implements the Spotify Web API surface the pipeline
// depends on: the authorization-code session, the recently-played history
// fetcher, and the batched audio-features fetcher.
//
// Authentication state is carried as a [Credential] value and passed
// explicitly to every fetch; there is no hidden session object shared
// between calls.
package services
