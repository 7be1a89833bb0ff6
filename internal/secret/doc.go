// Package secret resolves secrets referenced from the configuration file.
//
// Two forms are supported:
//
//   - ENC(<base64>) values encrypted with the "encrypt" command, decrypted
//     with the password in TASKCLIENT_ENCRYPTOR_PASSWORD
//   - ${env:NAME} and ${keyring:NAME} references to an environment variable
//     or an entry in the OS keyring
//
// Plain values pass through unchanged.
package secret
