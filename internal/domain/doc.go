// Package domain defines the persisted entity types for the storekeeper
// service: catalog categories and products, and issue-tracker solutions.
//
// All entities carry a store-assigned int64 identity primary key. A zero ID
// means the entity has not been persisted yet; identity columns start at 1,
// so 0 is never a live id.
//
// Validation rules live on the types themselves (Validate methods) and are
// applied at the service boundary before any store call.
package domain
