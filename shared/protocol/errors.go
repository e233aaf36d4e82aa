package protocol

// Error codes carried in Error.Code.
const (
	CodeInsufficientFunds   = "INSUFFICIENT_FUNDS"
	CodeAlreadyOwned        = "ALREADY_OWNED"
	CodeNotOwned            = "NOT_OWNED"
	CodeUnknownCostume      = "UNKNOWN_COSTUME"
	CodeDuplicateDefinition = "DUPLICATE_DEFINITION"
	CodeTransactionFailed   = "TRANSACTION_FAILED"
	CodeLocked              = "LOCKED"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeNothingSelected     = "NOTHING_SELECTED"
	CodeDuplicateRequest    = "DUPLICATE_REQUEST"
	CodeShopClosed          = "SHOP_CLOSED"
	CodeBadRequest          = "BAD_REQUEST"
	CodeInternal            = "INTERNAL"
)
