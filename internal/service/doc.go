// Package service implements the business operations over the catalog and
// solutions entities: validation, id-presence rules, and translation of
// store failures into typed errors the HTTP layer can map onto status
// codes.
//
// Create and update are distinct operations. Whether a payload carries an
// id decides which one is legal, and that check lives here so it can be
// tested without HTTP.
package service
