// Package web serves the browser client.
//
// GET / renders the character table with four filter inputs. The first
// render happens on the server from the query string; after that the
// page script re-queries the GraphQL endpoint and posts addCharacter
// mutations. GET /guide renders an embedded markdown guide with goldmark.
// Static files live under /static/.
package web
