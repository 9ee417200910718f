// Package logging provides a tiny abstraction so downstream code can depend
// on a minimal interface (Logger) while allowing users to plug any structured
// logger. A zerolog backed adapter is provided as the default production
// implementation; NoOpLogger keeps library defaults silent.
package logging
