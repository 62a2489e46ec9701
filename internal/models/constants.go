package models

// TransactionStatus константы статусов сделок
const (
	TransactionStatusRequested = "REQUESTED"
	TransactionStatusAccepted  = "ACCEPTED"
	TransactionStatusPaid      = "PAID"
	TransactionStatusMeeting   = "MEETING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusRefunded  = "REFUNDED"
)

// AvailabilityStatus константы доступности товара
const (
	ItemStatusAvailable = "AVAILABLE"
	ItemStatusReserved  = "RESERVED"
	ItemStatusSold      = "SOLD"
)

// ItemCondition константы состояния товара
const (
	ConditionNew     = "NEW"
	ConditionLikeNew = "LIKE_NEW"
	ConditionGood    = "GOOD"
	ConditionFair    = "FAIR"
	ConditionPoor    = "POOR"
)

// VerificationStatus константы статусов верификации студента
const (
	VerificationStatusUnverified = "UNVERIFIED"
	VerificationStatusPending    = "PENDING"
	VerificationStatusVerified   = "VERIFIED"
	VerificationStatusRejected   = "REJECTED"
)

// DisputeDecision константы решений по спорам
const (
	DisputeDecisionPending     = "PENDING"
	DisputeDecisionBuyerFavor  = "BUYER_FAVOR"
	DisputeDecisionSellerFavor = "SELLER_FAVOR"
	DisputeDecisionSplit       = "SPLIT"
	DisputeDecisionDismissed   = "DISMISSED"
	DisputeDecisionNeedsReview = "NEEDS_REVIEW"
)

// ValidItemConditions список валидных состояний товара
var ValidItemConditions = map[string]struct{}{
	ConditionNew:     {},
	ConditionLikeNew: {},
	ConditionGood:    {},
	ConditionFair:    {},
	ConditionPoor:    {},
}

// ActiveTransactionStatuses статусы, в которых сделка считается активной (не терминальной).
var ActiveTransactionStatuses = []string{
	TransactionStatusRequested,
	TransactionStatusAccepted,
	TransactionStatusPaid,
	TransactionStatusMeeting,
}
