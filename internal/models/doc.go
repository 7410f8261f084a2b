// Package models defines the core domain models for the bakery storefront.
//
// # Models
//
//   - User: Registered account with a role (customer, baker, admin)
//   - Cake: Catalog entry with one or more purchasable sizes
//   - CartItem / CartState: A shopper's cart and its derived totals
//   - CartDocument: The per-user cart as persisted remotely
//   - Order: A placed order with its fulfillment, status history and payments
//   - Favorite: A cake bookmarked by a user
//
// # Conventions
//
//  1. IDs are UUID strings generated by the store or the cart
//  2. Relationships use ID strings instead of pointers
//  3. Timestamps are Unix seconds, except CartDocument.SyncedAt (Unix milliseconds)
//  4. Money is float64 dollars; arithmetic goes through the pricing package
//
// Cart types carry JSON tags because the cart is persisted as a JSON document
// (in the local cache file and the remote per-user document).
package models
