// Package main FuratPay Gateway API
//
//	@title						FuratPay Gateway API
//	@version					1.0
//	@description				Payment session reconciliation for FuratPay checkouts
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@tag.name					Checkout
//	@tag.description			Session creation and payer status polling
//
//	@tag.name					Notifications
//	@tag.description			Signed provider notifications
//
//	@tag.name					Orders
//	@tag.description			Storefront order registration
package main
