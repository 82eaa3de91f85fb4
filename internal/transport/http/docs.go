// Package classification of Stockroom API
//
// # Documentation for Stockroom API
//
// Dashboard and withdrawal (bon) service for the IoT component inventory.
//
// Schemes: http
// BasePath: /
// Version: 1.0.0
//
// Consumes:
// - application/json
//
// Produces:
// - application/json
//
// swagger:meta
package http

import (
	"github.com/kahvecikaan/stockroom/internal/bon"
	"github.com/kahvecikaan/stockroom/internal/domain"
	"github.com/kahvecikaan/stockroom/internal/service"
)

// NOTE: Types defined here are purely for documentation purposes
// These types are not used by any of the handlers

// Generic error message
// swagger:response errorResponse
type errorResponseWrapper struct {
	// Description of the error
	// in: body
	Body ErrorResponse
}

// Validation errors defined as an array of strings
// swagger:response validationErrorResponse
type validationErrorResponseWrapper struct {
	// Collection of the errors
	// in: body
	Body ValidationError
}

// A withdrawal that failed its checks before submission
// swagger:response bonValidationResponse
type bonValidationResponseWrapper struct {
	// in: body
	Body BonValidationError
}

// swagger:response healthResponse
type healthResponseWrapper struct {
	// in: body
	Body struct {
		Status string `json:"status"`
	}
}

// Product counts per stock class
// swagger:response statsResponse
type statsResponseWrapper struct {
	// in: body
	Body domain.Summary
}

// A page of products
// swagger:response productsResponse
type productsResponseWrapper struct {
	// in: body
	Body service.ProductPage
}

// Data structure representing a single product
// swagger:response productResponse
type productResponseWrapper struct {
	// A single product
	// in: body
	Body domain.Product
}

// A page of one analytics section
// swagger:response sectionResponse
type sectionResponseWrapper struct {
	// in: body
	Body service.SectionView
}

// State of a bon draft
// swagger:response draftResponse
type draftResponseWrapper struct {
	// in: body
	Body service.DraftView
}

// A page of the draft's product picker
// swagger:response pickerResponse
type pickerResponseWrapper struct {
	// in: body
	Body service.PickerPage
}

// Where a submitted withdrawal was stored
// swagger:response receiptResponse
type receiptResponseWrapper struct {
	// in: body
	Body bon.Receipt
}

// Withdrawals kept locally
// swagger:response recordsResponse
type recordsResponseWrapper struct {
	// in: body
	Body []bon.Record
}

// No content response for endpoints that return 204
// swagger:response noContentResponse
type noContentResponseWrapper struct{}

// swagger:parameters getProductByID deleteProduct updateProduct
type productIDParamsWrapper struct {
	// The ID of the product
	// in: path
	// required: true
	ID int `json:"id"`
}

// swagger:parameters addProduct updateProduct
type productBodyParamsWrapper struct {
	// Product data structure to create or update.
	// in: body
	// required: true
	Body domain.Product
}

// swagger:parameters listProducts analyticsSection draftProducts
type listQueryParamsWrapper struct {
	// Case-insensitive search on name, code and location
	// in: query
	Q string `json:"q"`
	// Page number, starting at 1
	// in: query
	Page int `json:"page"`
}

// swagger:parameters analyticsSection
type sectionParamsWrapper struct {
	// low-stock or overstock
	// in: query
	Section string `json:"section"`
}

// swagger:parameters getDraft updateDraft closeDraft draftProducts refreshDraft submitDraft toggleItem setItemQuantity incrementItem decrementItem removeItem
type draftIDParamsWrapper struct {
	// The ID of the draft
	// in: path
	// required: true
	ID string `json:"id"`
}

// swagger:parameters toggleItem setItemQuantity incrementItem decrementItem removeItem
type itemParamsWrapper struct {
	// The ID of the product
	// in: path
	// required: true
	PID int `json:"pid"`
}

// swagger:parameters updateDraft
type formPatchParamsWrapper struct {
	// in: body
	Body service.FormPatch
}

// swagger:parameters setItemQuantity
type quantityParamsWrapper struct {
	// in: body
	Body QuantityEdit
}

// swagger:parameters submitSingle
type singleBonParamsWrapper struct {
	// in: body
	// required: true
	Body service.SingleBon
}

// ErrorResponse defines the structure for API error responses
//
// swagger:model
type ErrorResponse struct {
	// HTTP status code
	Code int `json:"code"`
	// The error message
	//
	// required: true
	Message string `json:"message"`
}

// ValidationError defines the structure for API validation error responses
//
// swagger:model
type ValidationError struct {
	// The validation errors
	//
	// required: true
	Messages []string `json:"messages"`
}

// BonValidationError is the first check a withdrawal failed
//
// swagger:model
type BonValidationError struct {
	// incomplete, invalid or insufficient_stock
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}
