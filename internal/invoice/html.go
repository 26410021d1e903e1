package invoice

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// BuildHTML renders the payload as a printable tax-invoice document. The
// output embeds all styles and the QR pattern, so the file stands alone for
// print-to-file conversion.
func BuildHTML(p Payload) (string, error) {
	totalQty := 0
	for _, line := range p.Items {
		totalQty += line.Qty
	}
	taxAmount := round2(p.Total * p.TaxPercent / 100)
	afterTax := round2(p.Total + taxAmount)
	words := fmt.Sprintf("%s Rupees Only", Words(int64(round0(p.Total))))

	reference := p.Reference
	if reference == "" {
		reference = "N/A"
	}
	qrData := fmt.Sprintf("BabyBox|Invoice:%d|Total:%.2f|Ref:%s", p.InvoiceNo, p.Total, reference)
	qrSvg := qrSVG(qrData, qrModules, qrCell)

	view := htmlView{
		InvoiceNo:     p.InvoiceNo,
		InvoiceDate:   p.Date.Format("02 Jan 2006"),
		InvoiceTime:   p.Date.Format("03:04 pm"),
		Reference:     orDash(p.Reference),
		CustomerName:  orDash(p.Customer.Name),
		CustomerAddr:  addressHTML(p.Customer.Address),
		CustomerPhone: orDash(p.Customer.Phone),
		CustomerGST:   orDash(p.Customer.GSTIN),
		PlaceOfSupply: orDash(p.Customer.PlaceOfSupply),
		TotalQty:      totalQty,
		Subtotal:      money(p.Subtotal),
		Total:         money(p.Total),
		TaxPercent:    fmt.Sprintf("%.1f", p.TaxPercent),
		TaxAmount:     money(taxAmount),
		AfterTax:      money(afterTax),
		Words:         words,
		QR:            template.HTML(qrSvg),
	}
	for i, line := range p.Items {
		share := "0.0%"
		if p.Total != 0 {
			share = fmt.Sprintf("%.1f%%", line.SharePercent)
		}
		name := line.Name
		if name == "" {
			name = fmt.Sprintf("Item %d", i+1)
		}
		view.Lines = append(view.Lines, htmlLine{
			Index:        i + 1,
			Name:         name,
			Description:  line.Description,
			Qty:          line.Qty,
			UnitPrice:    money(line.UnitPrice),
			TaxableValue: money(line.TaxableValue),
			Discount:     fmt.Sprintf("%.2f%%", line.DiscountPercent),
			Total:        money(line.Total),
			Share:        share,
		})
	}

	var sb strings.Builder
	if err := invoiceTmpl.Execute(&sb, view); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type htmlLine struct {
	Index        int
	Name         string
	Description  string
	Qty          int
	UnitPrice    string
	TaxableValue string
	Discount     string
	Total        string
	Share        string
}

type htmlView struct {
	InvoiceNo     uint
	InvoiceDate   string
	InvoiceTime   string
	Reference     string
	CustomerName  string
	CustomerAddr  template.HTML
	CustomerPhone string
	CustomerGST   string
	PlaceOfSupply string
	Lines         []htmlLine
	TotalQty      int
	Subtotal      string
	Total         string
	TaxPercent    string
	TaxAmount     string
	AfterTax      string
	Words         string
	QR            template.HTML
}

func money(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func addressHTML(addr string) template.HTML {
	if addr == "" {
		return "-"
	}
	escaped := template.HTMLEscapeString(addr)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br/>"))
}

func round0(v float64) float64 {
	return math.Round(v)
}

var invoiceTmpl = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.InvoiceNo}}</title>
  <style>
    body { margin: 0; font-family: 'Inter', 'Segoe UI', sans-serif; background: #fff; color: #0b1220; }
    .page { padding: 24px 32px; }
    header { display: flex; align-items: center; justify-content: space-between; border-bottom: 3px solid #0b1220; padding-bottom: 12px; }
    header h1 { margin: 0; font-size: 28px; letter-spacing: 1px; }
    header .tagline { font-size: 10px; text-transform: uppercase; letter-spacing: 1px; color: #9ca3af; }
    .meta { margin-top: 18px; display: flex; justify-content: space-between; gap: 16px; }
    .box { border: 1px solid #d7e1ea; border-radius: 8px; padding: 12px 14px; flex: 1; font-size: 12px; }
    .box strong { display: block; margin-bottom: 4px; font-size: 11px; color: #6b7280; }
    .table-wrap { margin-top: 18px; border: 1px solid #d7e1ea; border-radius: 10px; overflow: hidden; }
    table { width: 100%; border-collapse: collapse; font-size: 11px; }
    table thead { background: #eef2ff; }
    table th, table td { padding: 10px 8px; text-align: left; border-bottom: 1px solid #d7e1ea; }
    table th { text-transform: uppercase; font-size: 10px; letter-spacing: 0.5px; color: #0b1220; }
    .muted { color: #6b7280; font-size: 10px; margin-top: 2px; }
    .totals { margin-top: 16px; display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 12px; }
    .totals .panel { border: 1px solid #d7e1ea; border-radius: 10px; padding: 10px; background: #f9fafb; }
    .totals .label { font-size: 10px; color: #6b7280; text-transform: uppercase; letter-spacing: 0.5px; }
    .totals .value { font-size: 16px; font-weight: 600; }
    .lower { margin-top: 22px; display: flex; gap: 12px; }
    .qr { border: 1px solid #d7e1ea; padding: 10px; border-radius: 10px; width: 170px; }
    .qr svg { width: 100%; height: auto; }
    .billing-list { margin: 0; padding-left: 16px; font-size: 10px; color: #0b1220; }
    .billing-list li { margin-bottom: 4px; }
    .bank { margin-top: 16px; border: 1px solid #d7e1ea; border-radius: 10px; padding: 12px; font-size: 11px; }
    footer { margin-top: 28px; border-top: 1px solid #d7e1ea; padding-top: 12px; font-size: 10px; color: #4b5563; display: flex; justify-content: space-between; align-items: flex-start; }
  </style>
</head>
<body>
  <div class="page">
    <header>
      <div>
        <h1>KD COLLECTION</h1>
        <div class="tagline">D-33 Shyam Park extension  Rajendra nagar Ghaziabad, Phn. No 8448802078</div>
      </div>
      <div style="text-align:right">
        <strong>Tax Invoice</strong>
        <div style="font-size:12px; margin-top:6px;">Original for Recipient</div>
      </div>
    </header>

    <div class="meta">
      <div class="box">
        <strong>Customer Detail</strong>
        <div><strong>Name:</strong> {{.CustomerName}}</div>
        <div><strong>Address:</strong><br/>{{.CustomerAddr}}</div>
        <div><strong>Phone:</strong> {{.CustomerPhone}}</div>
        <div><strong>GSTIN:</strong> {{.CustomerGST}}</div>
        <div><strong>Place of Supply:</strong> {{.PlaceOfSupply}}</div>
      </div>
      <div class="box">
        <strong>Invoice No.</strong>
        <div>{{.InvoiceNo}}</div>
        <strong>Invoice Date</strong>
        <div>{{.InvoiceDate}} · {{.InvoiceTime}}</div>
        <strong>Reference</strong>
        <div>{{.Reference}}</div>
      </div>
    </div>

    <div class="table-wrap">
      <table>
        <thead>
          <tr>
            <th>Sr. No.</th>
            <th>Name of Product / Service</th>
            <th>HSN / SAC</th>
            <th>Qty</th>
            <th>Rate</th>
            <th>Taxable Value</th>
            <th>Discount %</th>
            <th>Total</th>
          </tr>
        </thead>
        <tbody>
          {{range .Lines}}<tr>
            <td>{{.Index}}</td>
            <td>
              <strong>{{.Name}}</strong>
              {{if .Description}}<div class="muted">{{.Description}}</div>{{end}}
            </td>
            <td>—</td>
            <td>{{.Qty}}</td>
            <td>{{.UnitPrice}}</td>
            <td>{{.TaxableValue}}</td>
            <td>{{.Discount}}</td>
            <td>{{.Total}}</td>
          </tr>
          {{end}}<tr>
            <td colspan="3"><strong>Total</strong></td>
            <td><strong>{{.TotalQty}}</strong></td>
            <td></td>
            <td><strong>{{.Subtotal}}</strong></td>
            <td>-</td>
            <td><strong>{{.Total}}</strong></td>
          </tr>
        </tbody>
      </table>
    </div>

    <div class="totals">
      <div class="panel">
        <div class="label">Total in words</div>
        <div class="value">{{.Words}}</div>
      </div>
      <div class="panel">
        <div class="label">Taxable Amount</div>
        <div class="value">{{.Total}}</div>
      </div>
      <div class="panel">
        <div class="label">Add: IGST ({{.TaxPercent}}%)</div>
        <div class="value">{{.TaxAmount}}</div>
      </div>
      <div class="panel">
        <div class="label">Total Amount After Tax</div>
        <div class="value">{{.AfterTax}}</div>
      </div>
    </div>

    <div class="lower">
      <div class="qr">{{.QR}}</div>
      <ul class="billing-list">
        {{range .Lines}}<li>{{.Name}} — {{.Share}} ({{.Qty}} pcs)</li>
        {{end}}
      </ul>
    </div>

    <div class="bank">
      <strong>Terms and Conditions</strong>
      <div>Subject to Uttar Pradesh Jurisdiction.</div>
      <div>Our responsibility ceases as soon as goods leave our premises.</div>
      <div>Goods once sold will not be taken back.</div>
      <div>Delivery Ex-Premises.</div>
    </div>

    <footer>
      <div>
        <div>Certified that the particulars given above are true and correct.</div>
        <div style="margin-top:24px; font-weight:700;">We are a composite gst firm we don't charge gst from customers</div>
      </div>
      <div style="text-align:right; font-size:11px;">Authorised Signatory</div>
    </footer>
  </div>
</body>
</html>
`))
