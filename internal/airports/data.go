package airports

// builtinAirports is the reference set shipped with the service. It covers
// every airport of the default European allow-list plus major hubs elsewhere.
var builtinAirports = []Airport{
	// Spain
	{IATA: "MAD", Name: "Madrid-Barajas", Latitude: 40.4719, Longitude: -3.5626},
	{IATA: "BCN", Name: "Barcelona-El Prat", Latitude: 41.2974, Longitude: 2.0833},
	{IATA: "AGP", Name: "Málaga-Costa del Sol", Latitude: 36.6749, Longitude: -4.4991},
	{IATA: "PMI", Name: "Palma de Mallorca", Latitude: 39.5517, Longitude: 2.7388},
	{IATA: "VLC", Name: "Valencia", Latitude: 39.4893, Longitude: -0.4817},
	{IATA: "SVQ", Name: "Sevilla", Latitude: 37.4180, Longitude: -5.8931},
	{IATA: "BIO", Name: "Bilbao", Latitude: 43.3011, Longitude: -2.9106},
	{IATA: "ALC", Name: "Alicante-Elche", Latitude: 38.2822, Longitude: -0.5582},
	{IATA: "TFS", Name: "Tenerife South", Latitude: 28.0445, Longitude: -16.5725},
	{IATA: "LPA", Name: "Gran Canaria", Latitude: 27.9319, Longitude: -15.3866},

	// United Kingdom
	{IATA: "LHR", Name: "London Heathrow", Latitude: 51.4700, Longitude: -0.4543},
	{IATA: "LGW", Name: "London Gatwick", Latitude: 51.1537, Longitude: -0.1821},
	{IATA: "MAN", Name: "Manchester", Latitude: 53.3537, Longitude: -2.2750},
	{IATA: "STN", Name: "London Stansted", Latitude: 51.8850, Longitude: 0.2350},
	{IATA: "LTN", Name: "London Luton", Latitude: 51.8747, Longitude: -0.3683},
	{IATA: "EDI", Name: "Edinburgh", Latitude: 55.9500, Longitude: -3.3725},
	{IATA: "BHX", Name: "Birmingham", Latitude: 52.4539, Longitude: -1.7480},
	{IATA: "GLA", Name: "Glasgow", Latitude: 55.8719, Longitude: -4.4331},
	{IATA: "BRS", Name: "Bristol", Latitude: 51.3827, Longitude: -2.7191},

	// France
	{IATA: "CDG", Name: "Paris Charles de Gaulle", Latitude: 49.0097, Longitude: 2.5479},
	{IATA: "ORY", Name: "Paris Orly", Latitude: 48.7233, Longitude: 2.3794},
	{IATA: "NCE", Name: "Nice Côte d'Azur", Latitude: 43.6584, Longitude: 7.2159},
	{IATA: "LYS", Name: "Lyon-Saint Exupéry", Latitude: 45.7256, Longitude: 5.0811},
	{IATA: "MRS", Name: "Marseille", Latitude: 43.4393, Longitude: 5.2214},
	{IATA: "TLS", Name: "Toulouse", Latitude: 43.6290, Longitude: 1.3638},
	{IATA: "BOD", Name: "Bordeaux", Latitude: 44.8283, Longitude: -0.7153},
	{IATA: "NTE", Name: "Nantes", Latitude: 47.1532, Longitude: -1.6107},

	// Germany
	{IATA: "FRA", Name: "Frankfurt", Latitude: 50.0379, Longitude: 8.5622},
	{IATA: "MUC", Name: "Munich", Latitude: 48.3537, Longitude: 11.7750},
	{IATA: "TXL", Name: "Berlin Tegel", Latitude: 52.5597, Longitude: 13.2877},
	{IATA: "BER", Name: "Berlin Brandenburg", Latitude: 52.3667, Longitude: 13.5033},
	{IATA: "DUS", Name: "Düsseldorf", Latitude: 51.2895, Longitude: 6.7668},
	{IATA: "HAM", Name: "Hamburg", Latitude: 53.6304, Longitude: 9.9882},
	{IATA: "CGN", Name: "Cologne", Latitude: 50.8659, Longitude: 7.1427},
	{IATA: "STR", Name: "Stuttgart", Latitude: 48.6899, Longitude: 9.2220},
	{IATA: "LEJ", Name: "Leipzig/Halle", Latitude: 51.4324, Longitude: 12.2416},

	// Italy
	{IATA: "FCO", Name: "Rome Fiumicino", Latitude: 41.8003, Longitude: 12.2389},
	{IATA: "MXP", Name: "Milan Malpensa", Latitude: 45.6306, Longitude: 8.7281},
	{IATA: "LIN", Name: "Milan Linate", Latitude: 45.4454, Longitude: 9.2765},
	{IATA: "VCE", Name: "Venice Marco Polo", Latitude: 45.5053, Longitude: 12.3519},
	{IATA: "NAP", Name: "Naples", Latitude: 40.8860, Longitude: 14.2908},
	{IATA: "BGY", Name: "Bergamo", Latitude: 45.6739, Longitude: 9.7042},
	{IATA: "CIA", Name: "Rome Ciampino", Latitude: 41.7994, Longitude: 12.5949},
	{IATA: "BLQ", Name: "Bologna", Latitude: 44.5354, Longitude: 11.2887},
	{IATA: "PSA", Name: "Pisa", Latitude: 43.6839, Longitude: 10.3927},
	{IATA: "CTA", Name: "Catania", Latitude: 37.4668, Longitude: 15.0664},

	// Benelux, Switzerland, Austria
	{IATA: "AMS", Name: "Amsterdam Schiphol", Latitude: 52.3105, Longitude: 4.7683},
	{IATA: "RTM", Name: "Rotterdam The Hague", Latitude: 51.9569, Longitude: 4.4372},
	{IATA: "EIN", Name: "Eindhoven", Latitude: 51.4501, Longitude: 5.3745},
	{IATA: "BRU", Name: "Brussels", Latitude: 50.9010, Longitude: 4.4856},
	{IATA: "CRL", Name: "Brussels Charleroi", Latitude: 50.4592, Longitude: 4.4538},
	{IATA: "ZRH", Name: "Zurich", Latitude: 47.4647, Longitude: 8.5492},
	{IATA: "GVA", Name: "Geneva", Latitude: 46.2381, Longitude: 6.1090},
	{IATA: "BSL", Name: "Basel", Latitude: 47.5900, Longitude: 7.5292},
	{IATA: "VIE", Name: "Vienna", Latitude: 48.1103, Longitude: 16.5697},

	// Portugal and the Nordics
	{IATA: "LIS", Name: "Lisbon", Latitude: 38.7742, Longitude: -9.1342},
	{IATA: "OPO", Name: "Porto", Latitude: 41.2481, Longitude: -8.6814},
	{IATA: "FAO", Name: "Faro", Latitude: 37.0144, Longitude: -7.9659},
	{IATA: "CPH", Name: "Copenhagen", Latitude: 55.6180, Longitude: 12.6508},
	{IATA: "ARN", Name: "Stockholm Arlanda", Latitude: 59.6519, Longitude: 17.9186},
	{IATA: "OSL", Name: "Oslo Gardermoen", Latitude: 60.1939, Longitude: 11.1004},
	{IATA: "HEL", Name: "Helsinki", Latitude: 60.3172, Longitude: 24.9633},
	{IATA: "BGO", Name: "Bergen", Latitude: 60.2934, Longitude: 5.2181},
	{IATA: "GOT", Name: "Gothenburg", Latitude: 57.6628, Longitude: 12.2798},
	{IATA: "MMX", Name: "Malmö", Latitude: 55.5364, Longitude: 13.3761},

	// Central, Eastern and Southern Europe
	{IATA: "WAW", Name: "Warsaw", Latitude: 52.1657, Longitude: 20.9671},
	{IATA: "PRG", Name: "Prague", Latitude: 50.1008, Longitude: 14.2600},
	{IATA: "BUD", Name: "Budapest", Latitude: 47.4299, Longitude: 19.2611},
	{IATA: "OTP", Name: "Bucharest Otopeni", Latitude: 44.5711, Longitude: 26.0850},
	{IATA: "SOF", Name: "Sofia", Latitude: 42.6967, Longitude: 23.4114},
	{IATA: "BEG", Name: "Belgrade", Latitude: 44.8184, Longitude: 20.3091},
	{IATA: "ATH", Name: "Athens", Latitude: 37.9364, Longitude: 23.9445},
	{IATA: "SKG", Name: "Thessaloniki", Latitude: 40.5197, Longitude: 22.9708},
	{IATA: "HER", Name: "Heraklion", Latitude: 35.3397, Longitude: 25.1803},
	{IATA: "RHO", Name: "Rhodes", Latitude: 36.4054, Longitude: 28.0862},
	{IATA: "ZAG", Name: "Zagreb", Latitude: 45.7429, Longitude: 16.0688},
	{IATA: "LJU", Name: "Ljubljana", Latitude: 46.2237, Longitude: 14.4576},
	{IATA: "RIX", Name: "Riga", Latitude: 56.9236, Longitude: 23.9711},
	{IATA: "TLL", Name: "Tallinn", Latitude: 59.4133, Longitude: 24.8328},
	{IATA: "VNO", Name: "Vilnius", Latitude: 54.6341, Longitude: 25.2858},
	{IATA: "KRK", Name: "Krakow", Latitude: 50.0777, Longitude: 19.7848},
	{IATA: "KTW", Name: "Katowice", Latitude: 50.4743, Longitude: 19.0800},
	{IATA: "GDN", Name: "Gdansk", Latitude: 54.3776, Longitude: 18.4662},
	{IATA: "BTS", Name: "Bratislava", Latitude: 48.1702, Longitude: 17.2127},

	// Ireland
	{IATA: "DUB", Name: "Dublin", Latitude: 53.4213, Longitude: -6.2701},
	{IATA: "ORK", Name: "Cork", Latitude: 51.8413, Longitude: -8.4911},
	{IATA: "SNN", Name: "Shannon", Latitude: 52.7020, Longitude: -8.9248},

	// Turkey and the Middle East
	{IATA: "IST", Name: "Istanbul", Latitude: 41.2753, Longitude: 28.7519},
	{IATA: "SAW", Name: "Istanbul Sabiha Gökçen", Latitude: 40.8986, Longitude: 29.3092},
	{IATA: "AYT", Name: "Antalya", Latitude: 36.8987, Longitude: 30.8005},
	{IATA: "DXB", Name: "Dubai", Latitude: 25.2532, Longitude: 55.3657},
	{IATA: "DOH", Name: "Doha", Latitude: 25.2731, Longitude: 51.6080},
	{IATA: "TLV", Name: "Tel Aviv", Latitude: 32.0114, Longitude: 34.8867},
	{IATA: "CAI", Name: "Cairo", Latitude: 30.1219, Longitude: 31.4056},

	// Asia
	{IATA: "DEL", Name: "Delhi", Latitude: 28.5562, Longitude: 77.1000},
	{IATA: "SIN", Name: "Singapore", Latitude: 1.3644, Longitude: 103.9915},
	{IATA: "HKG", Name: "Hong Kong", Latitude: 22.3080, Longitude: 113.9185},
	{IATA: "BKK", Name: "Bangkok", Latitude: 13.6900, Longitude: 100.7501},
	{IATA: "ICN", Name: "Seoul Incheon", Latitude: 37.4602, Longitude: 126.4407},
	{IATA: "NRT", Name: "Tokyo Narita", Latitude: 35.7720, Longitude: 140.3929},
	{IATA: "HND", Name: "Tokyo Haneda", Latitude: 35.5494, Longitude: 139.7798},
	{IATA: "PEK", Name: "Beijing", Latitude: 40.0799, Longitude: 116.6031},

	// Americas
	{IATA: "JFK", Name: "New York JFK", Latitude: 40.6413, Longitude: -73.7781},
	{IATA: "EWR", Name: "Newark", Latitude: 40.6895, Longitude: -74.1745},
	{IATA: "LAX", Name: "Los Angeles", Latitude: 33.9416, Longitude: -118.4085},
	{IATA: "SFO", Name: "San Francisco", Latitude: 37.6213, Longitude: -122.3790},
	{IATA: "ORD", Name: "Chicago O'Hare", Latitude: 41.9742, Longitude: -87.9073},
	{IATA: "MIA", Name: "Miami", Latitude: 25.7959, Longitude: -80.2870},
	{IATA: "ATL", Name: "Atlanta", Latitude: 33.6407, Longitude: -84.4277},
	{IATA: "BOS", Name: "Boston", Latitude: 42.3656, Longitude: -71.0096},
	{IATA: "YYZ", Name: "Toronto", Latitude: 43.6777, Longitude: -79.6248},
	{IATA: "YUL", Name: "Montreal", Latitude: 45.4657, Longitude: -73.7455},
	{IATA: "MEX", Name: "Mexico City", Latitude: 19.4363, Longitude: -99.0721},
	{IATA: "BOG", Name: "Bogotá", Latitude: 4.7016, Longitude: -74.1469},
	{IATA: "GRU", Name: "São Paulo", Latitude: -23.4356, Longitude: -46.4731},
	{IATA: "EZE", Name: "Buenos Aires", Latitude: -34.8222, Longitude: -58.5358},

	// Africa and Oceania
	{IATA: "CMN", Name: "Casablanca", Latitude: 33.3675, Longitude: -7.5898},
	{IATA: "JNB", Name: "Johannesburg", Latitude: -26.1392, Longitude: 28.2460},
	{IATA: "SYD", Name: "Sydney", Latitude: -33.9399, Longitude: 151.1753},
}

// DefaultAllowList is the set of European destinations accepted from the
// flight-status provider when no allow-list is configured.
var DefaultAllowList = []string{
	"MAD", "BCN", "AGP", "PMI", "VLC", "SVQ", "BIO", "ALC", "TFS", "LPA",
	"LHR", "LGW", "MAN", "STN", "LTN", "EDI", "BHX", "GLA", "BRS",
	"CDG", "ORY", "NCE", "LYS", "MRS", "TLS", "BOD", "NTE",
	"FRA", "MUC", "TXL", "BER", "DUS", "HAM", "CGN", "STR", "LEJ",
	"FCO", "MXP", "LIN", "VCE", "NAP", "BGY", "CIA", "BLQ", "PSA", "CTA",
	"AMS", "RTM", "EIN", "BRU", "CRL", "ZRH", "GVA", "BSL", "VIE",
	"LIS", "OPO", "FAO", "CPH", "ARN", "OSL", "HEL", "BGO", "GOT",
	"WAW", "PRG", "BUD", "OTP", "SOF", "BEG", "ATH", "SKG", "HER", "RHO",
	"DUB", "ORK", "SNN", "ZAG", "LJU", "RIX", "TLL", "VNO", "KRK", "KTW", "GDN", "BTS",
}
