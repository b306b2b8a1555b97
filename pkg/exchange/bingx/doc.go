// Package bingx implements the BingX exchange adapter.
// It covers spot and perpetual swap trading over REST plus market-data
// streaming over WebSocket.
//
// The package includes:
//   - Protocol: request building, HMAC-SHA256 signing and response parsing
//   - Normalizer: conversion between BingX payloads and canonical types
//   - Exchange: the unified trading surface composed from the shared transport
//
// Example usage:
//
//	ex, err := bingx.New(core.DefaultConfig("bingx"))
//	markets, err := ex.LoadMarkets(ctx, false)
package bingx
