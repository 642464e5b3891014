// Package audit drives a headless Chrome through named browser audits of the
// CEP Formación site and admin dashboard.
//
// Each audit opens pages at fixed viewports, probes computed styles and
// element state, prints one line per check, and saves screenshots. Service
// runs an audit programmatically and CommandBuilder wires the audit Cobra
// command. The Browser and Page interfaces isolate chromedp so audits can be
// exercised with stubs.
package audit
