// Package fetch retrieves web pages and converts them into analyzer-ready
// snapshots. It provides two fetchers behind one interface: a plain HTTP
// fetcher with retry support and a headless-browser fetcher for pages whose
// content only exists after JavaScript execution.
package fetch
