// Package main provides the qrgen command line tool.
//
// qrgen classifies free text (website, email, phone, social handle or plain
// text), encodes it as a QR symbol and writes a PNG.
//
// Usage:
//
//	qrgen generate example.com
//	qrgen wifi --ssid HomeNet --password secret
//	qrgen batch inputs.txt --dir out/
//
// See --help for all available options.
package main

func main() {
	Execute()
}
