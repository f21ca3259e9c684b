package models

import (
	"errors"
	"strconv"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodMobileMoney  PaymentMethod = "MobileMoney"
	PaymentMethodBankTransfer PaymentMethod = "BankTransfer"
	PaymentMethodCheck        PaymentMethod = "Check"
)

// convert enum to send response
func (t PaymentMethod) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

// convert input to enum type
func (t *PaymentMethod) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("payment method must be string")
	}
	paymentMethods := map[string]PaymentMethod{
		"Cash":         PaymentMethodCash,
		"MobileMoney":  PaymentMethodMobileMoney,
		"BankTransfer": PaymentMethodBankTransfer,
		"Check":        PaymentMethodCheck,
	}
	var ok bool
	*t, ok = paymentMethods[str]
	if !ok {
		return errors.New("invalid payment method")
	}
	return nil
}

type InvoiceType string

const (
	InvoiceTypeUnpaid  InvoiceType = "Unpaid"
	InvoiceTypePartial InvoiceType = "Partial"
	InvoiceTypePaid    InvoiceType = "Paid"
)

func (t InvoiceType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *InvoiceType) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("invoice type must be string")
	}
	switch str {
	case "Unpaid":
		*t = InvoiceTypeUnpaid
	case "Partial":
		*t = InvoiceTypePartial
	case "Paid":
		*t = InvoiceTypePaid
	default:
		return errors.New("invalid invoice type")
	}
	return nil
}

type InvoiceStatus string

const (
	InvoiceStatusUnpaid      InvoiceStatus = "Unpaid"
	InvoiceStatusPartialPaid InvoiceStatus = "PartialPaid"
	InvoiceStatusPaid        InvoiceStatus = "Paid"
)

func (t InvoiceStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

type ClientStatus string

const (
	ClientStatusGood     ClientStatus = "Good"
	ClientStatusWarning  ClientStatus = "Warning"
	ClientStatusCritical ClientStatus = "Critical"
)

func (t ClientStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

type CageotDirection string

const (
	CageotDirectionAdd    CageotDirection = "Add"
	CageotDirectionRemove CageotDirection = "Remove"
)

func (t CageotDirection) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *CageotDirection) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("cageot direction must be string")
	}
	switch str {
	case "Add":
		*t = CageotDirectionAdd
	case "Remove":
		*t = CageotDirectionRemove
	default:
		return errors.New("invalid cageot direction")
	}
	return nil
}

type CageotReason string

const (
	CageotReasonLivraison     CageotReason = "livraison"
	CageotReasonRetourClient  CageotReason = "retour_client"
	CageotReasonRecuperation  CageotReason = "recuperation"
	CageotReasonCollecte      CageotReason = "collecte"
	CageotReasonVente         CageotReason = "vente"
	CageotReasonClientRetrait CageotReason = "client_retrait"
	CageotReasonPerte         CageotReason = "perte"
	CageotReasonAutre         CageotReason = "autre"
)

// reasons valid per movement direction
var cageotReasonsByDirection = map[CageotDirection]map[CageotReason]bool{
	CageotDirectionAdd: {
		CageotReasonLivraison:    true,
		CageotReasonRetourClient: true,
		CageotReasonRecuperation: true,
		CageotReasonAutre:        true,
	},
	CageotDirectionRemove: {
		CageotReasonCollecte:      true,
		CageotReasonVente:         true,
		CageotReasonClientRetrait: true,
		CageotReasonPerte:         true,
		CageotReasonAutre:         true,
	},
}

func (t CageotReason) ValidFor(direction CageotDirection) bool {
	return cageotReasonsByDirection[direction][t]
}

func (t CageotReason) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *CageotReason) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("cageot reason must be string")
	}
	cageotReasons := map[string]CageotReason{
		"livraison":      CageotReasonLivraison,
		"retour_client":  CageotReasonRetourClient,
		"recuperation":   CageotReasonRecuperation,
		"collecte":       CageotReasonCollecte,
		"vente":          CageotReasonVente,
		"client_retrait": CageotReasonClientRetrait,
		"perte":          CageotReasonPerte,
		"autre":          CageotReasonAutre,
	}
	var ok bool
	*t, ok = cageotReasons[str]
	if !ok {
		return errors.New("invalid cageot reason")
	}
	return nil
}

type ClosureStatus string

const (
	ClosureStatusOpen   ClosureStatus = "Open"
	ClosureStatusClosed ClosureStatus = "Closed"
)

func (t ClosureStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

type TruckStatus string

const (
	TruckStatusRegistered TruckStatus = "Registered"
	TruckStatusUnloaded   TruckStatus = "Unloaded"
)

func (t TruckStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

type ClosureLineType string

const (
	ClosureLineTypePayment        ClosureLineType = "Payment"
	ClosureLineTypeInvoice        ClosureLineType = "Invoice"
	ClosureLineTypeCageotMovement ClosureLineType = "CageotMovement"
)

func (t ClosureLineType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleCashier UserRole = "cashier"
)

func (t UserRole) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *UserRole) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("user role must be string")
	}
	switch str {
	case "admin":
		*t = UserRoleAdmin
	case "cashier":
		*t = UserRoleCashier
	default:
		return errors.New("invalid user role")
	}
	return nil
}
