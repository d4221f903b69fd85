// Package domain holds the education API's resources as the console sees them.
// Field names follow the API's snake_case JSON; reads tolerate the several
// shapes the API uses for the same relation (see Ref, ID and Page).
package domain
