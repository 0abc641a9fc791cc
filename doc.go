// Package main starts recipebook-web, the server rendered frontend of the
// recipe book. It signs visitors in against the recipebook API, keeps their
// access token in a per visitor session store and guards every page
// navigation, refreshing the token silently while the API's refresh cookie
// is still valid.
package main
