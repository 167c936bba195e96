// Package models defines the core domain models for tripjapan.
//
// # Shared models
//
// These are stored by the server and shared by every device of a trip:
//   - Device: a traveller's phone or laptop that joined the trip
//   - Note: a message attached to an itinerary block, with reactions
//   - Mark: a gastronomy vote or favorite
//   - Score / CheckMark: gamification points, one point per check
//
// # Device-local models
//
// These never leave the device that created them:
//   - ChecklistItem: packing checklist entry, per traveller
//   - Expense: shared expense ledger entry
//
// # Content
//
// Itinerary, places, restaurants, dishes, photo ideas and practical info are
// static content loaded by the catalog package. They have no lifecycle.
//
// Relationships use ID strings, never pointers.
package models
