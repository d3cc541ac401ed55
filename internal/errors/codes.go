package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients map these codes to display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed or forged token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token revoked at logout
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // email already registered
	AuthAccountInactive    = "AUTH_ACCOUNT_INACTIVE"    // account not activated yet
	AuthActivationInvalid  = "AUTH_ACTIVATION_INVALID"  // bad or expired activation token
	AuthAlreadyActivated   = "AUTH_ALREADY_ACTIVATED"   // account already active
	AuthResetTokenInvalid  = "AUTH_RESET_TOKEN_INVALID" // bad, used, or expired reset token

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // no access
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"  // not allowed to act on this resource
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // admin-only operation
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // missing role in token

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed request body
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // bad path/query id
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // bad field format
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // value out of range
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing required field

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Products (PRODUCT_) ====================
	ProductNotFound    = "PRODUCT_NOT_FOUND"
	ProductUnavailable = "PRODUCT_UNAVAILABLE" // inactive or unapproved

	// ==================== Cart (CART_) ====================
	CartItemNotFound  = "CART_ITEM_NOT_FOUND"
	CartEmpty         = "CART_EMPTY"         // checkout on empty cart
	CartInvalidQty    = "CART_INVALID_QTY"   // quantity below 1
	InsufficientStock = "INSUFFICIENT_STOCK" // requested more than available

	// ==================== Orders (ORDER_) ====================
	OrderNotFound       = "ORDER_NOT_FOUND"
	OrderInvalidStatus  = "ORDER_INVALID_STATUS"  // unknown status value
	OrderNotCancellable = "ORDER_NOT_CANCELLABLE" // past the cancellable stage
	OrderAddressInvalid = "ORDER_ADDRESS_INVALID" // shipping info missing or not owned

	// ==================== Reviews (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewInvalidRating = "REVIEW_INVALID_RATING" // rating outside 1..5
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS" // one review per user per product

	// ==================== Addresses (ADDRESS_) ====================
	AddressNotFound = "ADDRESS_NOT_FOUND"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
