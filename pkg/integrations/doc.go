// Package integrations provides HTTP clients for market data APIs.
//
// # Overview
//
// This package contains the low-level client infrastructure used to fetch
// market data. Each data source has its own subpackage:
//
//   - [coingecko]: CoinGecko market data (prices, exchanges)
//
// # Client Pattern
//
// Source clients embed [Client], which handles:
//
//   - HTTP requests with retry and exponential backoff
//   - Response caching (file-based, configurable TTL)
//   - Request pacing to stay inside free-tier rate limits
//   - Sentinel errors for not-found and network failures
//
// # Adding a New Source
//
// To add support for a new market data source:
//
//  1. Create a subpackage: pkg/integrations/<source>/
//  2. Define response structs matching the API schema
//  3. Embed [Client] and use [Client.Cached] around fetches
//  4. Map the source's responses to holdings.RawRecord
//
// [coingecko]: github.com/coinvenn/coinvenn/pkg/integrations/coingecko
package integrations
