// package repositories provides the optional SQLite persistence layer for
// fetch runs and their merged track records.
//
// Persistence is opt-in plumbing around the pipeline: the core never
// requires a database, but cached runs feed the browse TUI and make
// datasets queryable after the fact.
package repositories
