// Package verifyreaderemail confirms the email of a reader with the six digit code sent at registration.
package verifyreaderemail
