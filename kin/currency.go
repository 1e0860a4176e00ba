package kin

import (
	"fmt"
	"strings"
)

// CurrencyCode is an ISO 4217 code, or kin. The position of a code in the
// table is its wire index and must never change.
type CurrencyCode string

const (
	CurrencyKIN CurrencyCode = "kin"
	CurrencyAED CurrencyCode = "aed"
	CurrencyAFN CurrencyCode = "afn"
	CurrencyALL CurrencyCode = "all"
	CurrencyAMD CurrencyCode = "amd"
	CurrencyANG CurrencyCode = "ang"
	CurrencyAOA CurrencyCode = "aoa"
	CurrencyARS CurrencyCode = "ars"
	CurrencyAUD CurrencyCode = "aud"
	CurrencyAWG CurrencyCode = "awg"
	CurrencyAZN CurrencyCode = "azn"
	CurrencyBAM CurrencyCode = "bam"
	CurrencyBBD CurrencyCode = "bbd"
	CurrencyBDT CurrencyCode = "bdt"
	CurrencyBGN CurrencyCode = "bgn"
	CurrencyBHD CurrencyCode = "bhd"
	CurrencyBIF CurrencyCode = "bif"
	CurrencyBMD CurrencyCode = "bmd"
	CurrencyBND CurrencyCode = "bnd"
	CurrencyBOB CurrencyCode = "bob"
	CurrencyBRL CurrencyCode = "brl"
	CurrencyBSD CurrencyCode = "bsd"
	CurrencyBTN CurrencyCode = "btn"
	CurrencyBWP CurrencyCode = "bwp"
	CurrencyBYN CurrencyCode = "byn"
	CurrencyBZD CurrencyCode = "bzd"
	CurrencyCAD CurrencyCode = "cad"
	CurrencyCDF CurrencyCode = "cdf"
	CurrencyCHF CurrencyCode = "chf"
	CurrencyCLP CurrencyCode = "clp"
	CurrencyCNY CurrencyCode = "cny"
	CurrencyCOP CurrencyCode = "cop"
	CurrencyCRC CurrencyCode = "crc"
	CurrencyCUP CurrencyCode = "cup"
	CurrencyCVE CurrencyCode = "cve"
	CurrencyCZK CurrencyCode = "czk"
	CurrencyDJF CurrencyCode = "djf"
	CurrencyDKK CurrencyCode = "dkk"
	CurrencyDOP CurrencyCode = "dop"
	CurrencyDZD CurrencyCode = "dzd"
	CurrencyEGP CurrencyCode = "egp"
	CurrencyERN CurrencyCode = "ern"
	CurrencyETB CurrencyCode = "etb"
	CurrencyEUR CurrencyCode = "eur"
	CurrencyFJD CurrencyCode = "fjd"
	CurrencyFKP CurrencyCode = "fkp"
	CurrencyGBP CurrencyCode = "gbp"
	CurrencyGEL CurrencyCode = "gel"
	CurrencyGHS CurrencyCode = "ghs"
	CurrencyGIP CurrencyCode = "gip"
	CurrencyGMD CurrencyCode = "gmd"
	CurrencyGNF CurrencyCode = "gnf"
	CurrencyGTQ CurrencyCode = "gtq"
	CurrencyGYD CurrencyCode = "gyd"
	CurrencyHKD CurrencyCode = "hkd"
	CurrencyHNL CurrencyCode = "hnl"
	CurrencyHRK CurrencyCode = "hrk"
	CurrencyHTG CurrencyCode = "htg"
	CurrencyHUF CurrencyCode = "huf"
	CurrencyIDR CurrencyCode = "idr"
	CurrencyILS CurrencyCode = "ils"
	CurrencyINR CurrencyCode = "inr"
	CurrencyIQD CurrencyCode = "iqd"
	CurrencyIRR CurrencyCode = "irr"
	CurrencyISK CurrencyCode = "isk"
	CurrencyJMD CurrencyCode = "jmd"
	CurrencyJOD CurrencyCode = "jod"
	CurrencyJPY CurrencyCode = "jpy"
	CurrencyKES CurrencyCode = "kes"
	CurrencyKGS CurrencyCode = "kgs"
	CurrencyKHR CurrencyCode = "khr"
	CurrencyKMF CurrencyCode = "kmf"
	CurrencyKPW CurrencyCode = "kpw"
	CurrencyKRW CurrencyCode = "krw"
	CurrencyKWD CurrencyCode = "kwd"
	CurrencyKYD CurrencyCode = "kyd"
	CurrencyKZT CurrencyCode = "kzt"
	CurrencyLAK CurrencyCode = "lak"
	CurrencyLBP CurrencyCode = "lbp"
	CurrencyLKR CurrencyCode = "lkr"
	CurrencyLRD CurrencyCode = "lrd"
	CurrencyLYD CurrencyCode = "lyd"
	CurrencyMAD CurrencyCode = "mad"
	CurrencyMDL CurrencyCode = "mdl"
	CurrencyMGA CurrencyCode = "mga"
	CurrencyMKD CurrencyCode = "mkd"
	CurrencyMMK CurrencyCode = "mmk"
	CurrencyMNT CurrencyCode = "mnt"
	CurrencyMOP CurrencyCode = "mop"
	CurrencyMRU CurrencyCode = "mru"
	CurrencyMUR CurrencyCode = "mur"
	CurrencyMVR CurrencyCode = "mvr"
	CurrencyMWK CurrencyCode = "mwk"
	CurrencyMXN CurrencyCode = "mxn"
	CurrencyMYR CurrencyCode = "myr"
	CurrencyMZN CurrencyCode = "mzn"
	CurrencyNAD CurrencyCode = "nad"
	CurrencyNGN CurrencyCode = "ngn"
	CurrencyNIO CurrencyCode = "nio"
	CurrencyNOK CurrencyCode = "nok"
	CurrencyNPR CurrencyCode = "npr"
	CurrencyNZD CurrencyCode = "nzd"
	CurrencyOMR CurrencyCode = "omr"
	CurrencyPAB CurrencyCode = "pab"
	CurrencyPEN CurrencyCode = "pen"
	CurrencyPGK CurrencyCode = "pgk"
	CurrencyPHP CurrencyCode = "php"
	CurrencyPKR CurrencyCode = "pkr"
	CurrencyPLN CurrencyCode = "pln"
	CurrencyPYG CurrencyCode = "pyg"
	CurrencyQAR CurrencyCode = "qar"
	CurrencyRON CurrencyCode = "ron"
	CurrencyRSD CurrencyCode = "rsd"
	CurrencyRUB CurrencyCode = "rub"
	CurrencyRWF CurrencyCode = "rwf"
	CurrencySAR CurrencyCode = "sar"
	CurrencySBD CurrencyCode = "sbd"
	CurrencySCR CurrencyCode = "scr"
	CurrencySDG CurrencyCode = "sdg"
	CurrencySEK CurrencyCode = "sek"
	CurrencySGD CurrencyCode = "sgd"
	CurrencySHP CurrencyCode = "shp"
	CurrencySLL CurrencyCode = "sll"
	CurrencySOS CurrencyCode = "sos"
	CurrencySRD CurrencyCode = "srd"
	CurrencySSP CurrencyCode = "ssp"
	CurrencySTN CurrencyCode = "stn"
	CurrencySYP CurrencyCode = "syp"
	CurrencySZL CurrencyCode = "szl"
	CurrencyTHB CurrencyCode = "thb"
	CurrencyTJS CurrencyCode = "tjs"
	CurrencyTMT CurrencyCode = "tmt"
	CurrencyTND CurrencyCode = "tnd"
	CurrencyTOP CurrencyCode = "top"
	CurrencyTRY CurrencyCode = "try"
	CurrencyTTD CurrencyCode = "ttd"
	CurrencyTWD CurrencyCode = "twd"
	CurrencyTZS CurrencyCode = "tzs"
	CurrencyUAH CurrencyCode = "uah"
	CurrencyUGX CurrencyCode = "ugx"
	CurrencyUSD CurrencyCode = "usd"
	CurrencyUYU CurrencyCode = "uyu"
	CurrencyUZS CurrencyCode = "uzs"
	CurrencyVES CurrencyCode = "ves"
	CurrencyVND CurrencyCode = "vnd"
	CurrencyVUV CurrencyCode = "vuv"
	CurrencyWST CurrencyCode = "wst"
	CurrencyXAF CurrencyCode = "xaf"
	CurrencyXCD CurrencyCode = "xcd"
	CurrencyXOF CurrencyCode = "xof"
	CurrencyXPF CurrencyCode = "xpf"
	CurrencyYER CurrencyCode = "yer"
	CurrencyZAR CurrencyCode = "zar"
	CurrencyZMW CurrencyCode = "zmw"
	CurrencySLE CurrencyCode = "sle"
	CurrencyVED CurrencyCode = "ved"
)

var currencies = [...]CurrencyCode{
	CurrencyKIN, CurrencyAED, CurrencyAFN, CurrencyALL, CurrencyAMD, CurrencyANG, CurrencyAOA,
	CurrencyARS, CurrencyAUD, CurrencyAWG, CurrencyAZN, CurrencyBAM, CurrencyBBD, CurrencyBDT,
	CurrencyBGN, CurrencyBHD, CurrencyBIF, CurrencyBMD, CurrencyBND, CurrencyBOB, CurrencyBRL,
	CurrencyBSD, CurrencyBTN, CurrencyBWP, CurrencyBYN, CurrencyBZD, CurrencyCAD, CurrencyCDF,
	CurrencyCHF, CurrencyCLP, CurrencyCNY, CurrencyCOP, CurrencyCRC, CurrencyCUP, CurrencyCVE,
	CurrencyCZK, CurrencyDJF, CurrencyDKK, CurrencyDOP, CurrencyDZD, CurrencyEGP, CurrencyERN,
	CurrencyETB, CurrencyEUR, CurrencyFJD, CurrencyFKP, CurrencyGBP, CurrencyGEL, CurrencyGHS,
	CurrencyGIP, CurrencyGMD, CurrencyGNF, CurrencyGTQ, CurrencyGYD, CurrencyHKD, CurrencyHNL,
	CurrencyHRK, CurrencyHTG, CurrencyHUF, CurrencyIDR, CurrencyILS, CurrencyINR, CurrencyIQD,
	CurrencyIRR, CurrencyISK, CurrencyJMD, CurrencyJOD, CurrencyJPY, CurrencyKES, CurrencyKGS,
	CurrencyKHR, CurrencyKMF, CurrencyKPW, CurrencyKRW, CurrencyKWD, CurrencyKYD, CurrencyKZT,
	CurrencyLAK, CurrencyLBP, CurrencyLKR, CurrencyLRD, CurrencyLYD, CurrencyMAD, CurrencyMDL,
	CurrencyMGA, CurrencyMKD, CurrencyMMK, CurrencyMNT, CurrencyMOP, CurrencyMRU, CurrencyMUR,
	CurrencyMVR, CurrencyMWK, CurrencyMXN, CurrencyMYR, CurrencyMZN, CurrencyNAD, CurrencyNGN,
	CurrencyNIO, CurrencyNOK, CurrencyNPR, CurrencyNZD, CurrencyOMR, CurrencyPAB, CurrencyPEN,
	CurrencyPGK, CurrencyPHP, CurrencyPKR, CurrencyPLN, CurrencyPYG, CurrencyQAR, CurrencyRON,
	CurrencyRSD, CurrencyRUB, CurrencyRWF, CurrencySAR, CurrencySBD, CurrencySCR, CurrencySDG,
	CurrencySEK, CurrencySGD, CurrencySHP, CurrencySLL, CurrencySOS, CurrencySRD, CurrencySSP,
	CurrencySTN, CurrencySYP, CurrencySZL, CurrencyTHB, CurrencyTJS, CurrencyTMT, CurrencyTND,
	CurrencyTOP, CurrencyTRY, CurrencyTTD, CurrencyTWD, CurrencyTZS, CurrencyUAH, CurrencyUGX,
	CurrencyUSD, CurrencyUYU, CurrencyUZS, CurrencyVES, CurrencyVND, CurrencyVUV, CurrencyWST,
	CurrencyXAF, CurrencyXCD, CurrencyXOF, CurrencyXPF, CurrencyYER, CurrencyZAR, CurrencyZMW,
	CurrencySLE, CurrencyVED,
}

var currencyIndex = func() map[CurrencyCode]uint8 {
	m := make(map[CurrencyCode]uint8, len(currencies))
	for i, c := range currencies {
		m[c] = uint8(i)
	}
	return m
}()

// Currencies returns every supported code in wire order.
func Currencies() []CurrencyCode {
	return append([]CurrencyCode(nil), currencies[:]...)
}

// Index returns the wire index of c and false if c is unknown.
func (c CurrencyCode) Index() (uint8, bool) {
	i, ok := currencyIndex[c]
	return i, ok
}

// CurrencyAt returns the code stored at wire index i.
func CurrencyAt(i uint8) (CurrencyCode, bool) {
	if int(i) >= len(currencies) {
		return "", false
	}
	return currencies[i], true
}

// ParseCurrency accepts a code in any letter case.
func ParseCurrency(s string) (CurrencyCode, error) {
	c := CurrencyCode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := currencyIndex[c]; !ok {
		return "", fmt.Errorf("unknown currency code %q", s)
	}
	return c, nil
}

func (c CurrencyCode) String() string {
	return string(c)
}
