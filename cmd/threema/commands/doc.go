// Package commands defines the threema CLI.
//
// Commands
//
//   - send      Encrypt and send a text message
//   - lookup    Resolve an identity's public key, or an identity by email/phone
//   - credits   Show the remaining message credits
//   - generate  Generate a fresh identity key pair
//   - backup    Decrypt a backup and re-encrypt it under a new password
//
// Credentials come from flags or from the environment (THREEMA_ID,
// THREEMA_SECRET, THREEMA_PRIVATE_KEY, THREEMA_BACKUP,
// THREEMA_PASSWORD); a .env file in the working directory is loaded if
// present.
package commands
