// Package notify sends every stored record to an operator.
//
// EmailNotifier renders the records as an HTML table and submits it over
// authenticated SMTP. TelegramNotifier sends a plain text table through a
// bot. Neither modifies the store.
package notify
