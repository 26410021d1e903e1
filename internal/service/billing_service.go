package service

import (
	"go-stockdesk/internal/export"
	"go-stockdesk/internal/invoice"
	"go-stockdesk/internal/model"
	"go-stockdesk/pkg/validator"
)

// BillingService turns a stored transaction plus user-entered customer
// details into a printable invoice document.
type BillingService interface {
	RenderInvoice(req *model.InvoiceRequest) (string, error)
	GenerateInvoice(req *model.InvoiceRequest) (string, error)
}

type billingService struct {
	inv    InventoryService
	writer *export.InvoiceWriter
}

func NewBillingService(inv InventoryService, writer *export.InvoiceWriter) BillingService {
	return &billingService{inv: inv, writer: writer}
}

func (s *billingService) buildPayload(req *model.InvoiceRequest) (invoice.Payload, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return invoice.Payload{}, err
	}

	tx, err := s.inv.GetTransaction(req.TransactionID)
	if err != nil {
		return invoice.Payload{}, err
	}

	customer := invoice.Customer{
		Name:          req.Customer.Name,
		Address:       req.Customer.Address,
		Phone:         req.Customer.Phone,
		GSTIN:         req.Customer.GSTIN,
		PlaceOfSupply: req.Customer.PlaceOfSupply,
	}
	return invoice.BuildPayload(tx, customer, req.TaxPercent), nil
}

// RenderInvoice returns the document markup without touching disk.
func (s *billingService) RenderInvoice(req *model.InvoiceRequest) (string, error) {
	payload, err := s.buildPayload(req)
	if err != nil {
		return "", err
	}
	return invoice.BuildHTML(payload)
}

// GenerateInvoice renders the document and hands it to the print-to-file
// collaborator, returning the produced file's path.
func (s *billingService) GenerateInvoice(req *model.InvoiceRequest) (string, error) {
	payload, err := s.buildPayload(req)
	if err != nil {
		return "", err
	}
	markup, err := invoice.BuildHTML(payload)
	if err != nil {
		return "", err
	}
	return s.writer.Write(payload.InvoiceNo, markup)
}
