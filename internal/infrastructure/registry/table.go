package registry

// countryTable lists the marketplaces known per country. Sites without an
// extractor stay in the table as catalog data; the search service skips them.
var countryTable = []struct {
	code     string
	name     string
	currency string
	sites    []string
}{
	{"US", "United States", "USD", []string{"amazon", "ebay", "walmart", "bestbuy", "target"}},
	{"CA", "Canada", "CAD", []string{"amazon", "ebay", "bestbuy", "canadiantire", "walmart"}},
	{"MX", "Mexico", "MXN", []string{"amazon", "mercadolibre", "liverpool", "elektra", "coppel"}},
	{"GB", "United Kingdom", "GBP", []string{"amazon", "ebay", "argos", "currys", "johnlewis"}},
	{"DE", "Germany", "EUR", []string{"amazon", "ebay", "otto", "mediamarkt", "saturn"}},
	{"FR", "France", "EUR", []string{"amazon", "ebay", "fnac", "darty", "cdiscount"}},
	{"IT", "Italy", "EUR", []string{"amazon", "ebay", "eprice", "unieuro"}},
	{"ES", "Spain", "EUR", []string{"amazon", "ebay", "elcorteingles", "pccomponentes"}},
	{"NL", "Netherlands", "EUR", []string{"amazon", "ebay", "bol", "coolblue"}},
	{"BE", "Belgium", "EUR", []string{"amazon", "ebay", "bol"}},
	{"AT", "Austria", "EUR", []string{"amazon", "ebay"}},
	{"CH", "Switzerland", "CHF", []string{"amazon", "ebay", "digitec"}},
	{"SE", "Sweden", "SEK", []string{"amazon", "ebay", "webhallen"}},
	{"NO", "Norway", "NOK", []string{"amazon", "ebay", "komplett"}},
	{"DK", "Denmark", "DKK", []string{"amazon", "ebay", "proshop"}},
	{"FI", "Finland", "EUR", []string{"amazon", "ebay", "verkkokauppa"}},
	{"PL", "Poland", "PLN", []string{"amazon", "ebay", "allegro"}},
	{"CZ", "Czech Republic", "CZK", []string{"amazon", "ebay", "alza"}},
	{"HU", "Hungary", "HUF", []string{"amazon", "ebay"}},
	{"RO", "Romania", "RON", []string{"amazon", "ebay", "emag"}},
	{"BG", "Bulgaria", "BGN", []string{"amazon", "ebay"}},
	{"HR", "Croatia", "EUR", []string{"amazon", "ebay"}},
	{"SI", "Slovenia", "EUR", []string{"amazon", "ebay"}},
	{"SK", "Slovakia", "EUR", []string{"amazon", "ebay"}},
	{"EE", "Estonia", "EUR", []string{"amazon", "ebay"}},
	{"LV", "Latvia", "EUR", []string{"amazon", "ebay"}},
	{"LT", "Lithuania", "EUR", []string{"amazon", "ebay"}},
	{"IE", "Ireland", "EUR", []string{"amazon", "ebay"}},
	{"PT", "Portugal", "EUR", []string{"amazon", "ebay"}},
	{"GR", "Greece", "EUR", []string{"amazon", "ebay"}},
	{"CY", "Cyprus", "EUR", []string{"amazon", "ebay"}},
	{"MT", "Malta", "EUR", []string{"amazon", "ebay"}},
	{"LU", "Luxembourg", "EUR", []string{"amazon", "ebay"}},
	{"IN", "India", "INR", []string{"amazon", "ebay", "flipkart", "generic"}},
	{"CN", "China", "CNY", []string{"amazon", "ebay", "lazada", "shopee", "generic"}},
	{"JP", "Japan", "JPY", []string{"amazon", "ebay", "lazada", "shopee", "flipkart", "generic"}},
	{"KR", "South Korea", "KRW", []string{"amazon", "ebay", "lazada", "shopee", "flipkart", "generic"}},
	{"AU", "Australia", "AUD", []string{"amazon", "ebay", "lazada", "shopee", "flipkart", "generic"}},
	{"NZ", "New Zealand", "NZD", []string{"amazon", "ebay", "lazada", "shopee", "flipkart", "generic"}},
	{"SG", "Singapore", "SGD", []string{"amazon", "ebay", "lazada", "shopee", "flipkart", "generic"}},
	{"MY", "Malaysia", "MYR", []string{"amazon", "ebay", "lazada", "shopee", "flipkart", "generic"}},
	{"TH", "Thailand", "THB", []string{"amazon", "ebay", "lazada", "shopee", "flipkart", "generic"}},
	{"ID", "Indonesia", "IDR", []string{"amazon", "ebay", "lazada", "shopee", "flipkart", "generic"}},
	{"PH", "Philippines", "PHP", []string{"amazon", "ebay", "lazada", "shopee", "flipkart", "generic"}},
	{"VN", "Vietnam", "VND", []string{"amazon", "ebay", "lazada", "shopee", "flipkart", "generic"}},
	{"HK", "Hong Kong", "HKD", []string{"amazon", "ebay", "lazada", "shopee", "flipkart", "generic"}},
	{"TW", "Taiwan", "TWD", []string{"amazon", "ebay", "lazada", "shopee", "flipkart", "generic"}},
	{"BR", "Brazil", "BRL", []string{"amazon", "mercadolivre", "americanas", "submarino", "casasbahia"}},
	{"AR", "Argentina", "ARS", []string{"mercadolibre", "amazon"}},
	{"CL", "Chile", "CLP", []string{"mercadolibre", "amazon", "falabella"}},
	{"CO", "Colombia", "COP", []string{"mercadolibre", "amazon", "falabella"}},
	{"PE", "Peru", "PEN", []string{"mercadolibre", "amazon", "falabella"}},
	{"UY", "Uruguay", "UYU", []string{"mercadolibre", "amazon"}},
	{"PY", "Paraguay", "PYG", []string{"mercadolibre", "amazon"}},
	{"BO", "Bolivia", "BOB", []string{"mercadolibre", "amazon"}},
	{"EC", "Ecuador", "USD", []string{"mercadolibre", "amazon"}},
	{"VE", "Venezuela", "VES", []string{"mercadolibre", "amazon"}},
	{"GY", "Guyana", "GYD", []string{"amazon", "ebay"}},
	{"SR", "Suriname", "SRD", []string{"amazon", "ebay"}},
	{"AE", "United Arab Emirates", "AED", []string{"amazon", "ebay", "noon", "carrefour"}},
	{"SA", "Saudi Arabia", "SAR", []string{"amazon", "ebay", "noon", "extra"}},
	{"IL", "Israel", "ILS", []string{"amazon", "ebay"}},
	{"TR", "Turkey", "TRY", []string{"amazon", "ebay", "hepsiburada", "trendyol"}},
	{"EG", "Egypt", "EGP", []string{"amazon", "ebay", "jumia"}},
	{"QA", "Qatar", "QAR", []string{"amazon", "ebay"}},
	{"KW", "Kuwait", "KWD", []string{"amazon", "ebay"}},
	{"BH", "Bahrain", "BHD", []string{"amazon", "ebay"}},
	{"OM", "Oman", "OMR", []string{"amazon", "ebay"}},
	{"JO", "Jordan", "JOD", []string{"amazon", "ebay"}},
	{"LB", "Lebanon", "LBP", []string{"amazon", "ebay"}},
	{"ZA", "South Africa", "ZAR", []string{"amazon", "ebay", "takealot", "makro"}},
	{"NG", "Nigeria", "NGN", []string{"amazon", "ebay", "jumia", "konga"}},
	{"KE", "Kenya", "KES", []string{"amazon", "ebay", "jumia"}},
	{"GH", "Ghana", "GHS", []string{"amazon", "ebay", "jumia"}},
	{"MA", "Morocco", "MAD", []string{"amazon", "ebay", "jumia"}},
	{"TN", "Tunisia", "TND", []string{"amazon", "ebay", "jumia"}},
	{"DZ", "Algeria", "DZD", []string{"amazon", "ebay"}},
	{"ET", "Ethiopia", "ETB", []string{"amazon", "ebay"}},
	{"UG", "Uganda", "UGX", []string{"amazon", "ebay", "jumia"}},
	{"TZ", "Tanzania", "TZS", []string{"amazon", "ebay", "jumia"}},
	{"RU", "Russia", "RUB", []string{"amazon", "ebay", "ozon", "wildberries"}},
	{"UA", "Ukraine", "UAH", []string{"amazon", "ebay", "rozetka"}},
	{"BY", "Belarus", "BYN", []string{"amazon", "ebay"}},
	{"KZ", "Kazakhstan", "KZT", []string{"amazon", "ebay"}},
	{"UZ", "Uzbekistan", "UZS", []string{"amazon", "ebay"}},
	{"PK", "Pakistan", "PKR", []string{"amazon", "ebay", "daraz"}},
	{"BD", "Bangladesh", "BDT", []string{"amazon", "ebay", "daraz"}},
	{"LK", "Sri Lanka", "LKR", []string{"amazon", "ebay", "daraz"}},
	{"NP", "Nepal", "NPR", []string{"amazon", "ebay", "daraz"}},
	{"MM", "Myanmar", "MMK", []string{"amazon", "ebay"}},
	{"KH", "Cambodia", "KHR", []string{"amazon", "ebay"}},
	{"LA", "Laos", "LAK", []string{"amazon", "ebay"}},
	{"BN", "Brunei", "BND", []string{"amazon", "ebay"}},
	{"MN", "Mongolia", "MNT", []string{"amazon", "ebay"}},
	{"AF", "Afghanistan", "AFN", []string{"amazon", "ebay"}},
	{"IQ", "Iraq", "IQD", []string{"amazon", "ebay"}},
	{"IR", "Iran", "IRR", []string{"amazon", "ebay"}},
	{"SY", "Syria", "SYP", []string{"amazon", "ebay"}},
	{"YE", "Yemen", "YER", []string{"amazon", "ebay"}},
}
