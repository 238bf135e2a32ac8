// Command iamctl runs and administers the IAM tenant role service.
//
// # Quick Start
//
//	# Run database migrations
//	iamctl db migrate
//
//	# Start the server
//	iamctl server
//
//	# Apply a manifest of assignments
//	iamctl manifest apply assignments.yml
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - IAM_TOKEN_SIGNING_KEY: HMAC secret for access and refresh tokens
//   - IAM_CONFIG_PATH: directory holding iam.yml (default /etc/iam/config)
//   - IAM_LOG_LEVEL: Log level (debug, info, warn, error)
//   - IAM_LOG_FORMAT: json or console
//   - PORT: Server port (default: 8000)
//
// A .env file in the working directory is read before the environment.
package main
