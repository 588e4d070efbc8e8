package server

// Every room is created from the same template: four teams, the seven
// Anatolian regions as claimable cities, and a fixed question bank.

type teamPreset struct {
	Name  string
	Color string
}

type cityPreset struct {
	Code   string
	Name   string
	Region string
	Color  string
}

type questionPreset struct {
	Prompt       string
	Choices      []string
	CorrectIndex int
	CityCode     string // binds the question to one city
	Region       string // looser binding, used when CityCode is empty
}

var teamPresets = []teamPreset{
	{Name: "Kirmizi Simsekler", Color: "#ef4444"},
	{Name: "Mavi Ufuk", Color: "#3b82f6"},
	{Name: "Yesil Vadi", Color: "#22c55e"},
	{Name: "Altin Hilal", Color: "#facc15"},
}

var cityPresets = []cityPreset{
	{Code: "REG-MARMARA", Name: "Marmara", Region: "Marmara", Color: "#3b82f6"},
	{Code: "REG-EGE", Name: "Ege", Region: "Ege", Color: "#22c55e"},
	{Code: "REG-AKDENIZ", Name: "Akdeniz", Region: "Akdeniz", Color: "#ef4444"},
	{Code: "REG-IC-ANADOLU", Name: "Ic Anadolu", Region: "Ic Anadolu", Color: "#facc15"},
	{Code: "REG-KARADENIZ", Name: "Karadeniz", Region: "Karadeniz", Color: "#10b981"},
	{Code: "REG-DOGU-ANADOLU", Name: "Dogu Anadolu", Region: "Dogu Anadolu", Color: "#8b5cf6"},
	{Code: "REG-GUNEYDOGU", Name: "Guneydogu Anadolu", Region: "Guneydogu Anadolu", Color: "#f97316"},
}

var questionPresets = []questionPreset{
	{
		Prompt:       "Istanbul'un tarihi yarimadasini cevreleyen su kitlesi hangisidir?",
		Choices:      []string{"Ege Denizi", "Marmara Denizi", "Karadeniz", "Halic"},
		CorrectIndex: 1,
		CityCode:     "REG-MARMARA",
	},
	{
		Prompt:       "Ankara hangi yuzyilda Turkiye Cumhuriyeti'nin baskenti olmustur?",
		Choices:      []string{"18. yuzyil", "19. yuzyil", "20. yuzyil", "21. yuzyil"},
		CorrectIndex: 2,
		CityCode:     "REG-IC-ANADOLU",
	},
	{
		Prompt:       "Adana'nin meshur tas koprusunun adi nedir?",
		Choices:      []string{"Tas Kopru", "Varda Koprusu", "Galata Koprusu", "Seyhan Koprusu"},
		CorrectIndex: 0,
		CityCode:     "REG-AKDENIZ",
	},
	{
		Prompt:       "Izmir'de 1922'de gerceklesen buyuk yangina ne ad verilir?",
		Choices:      []string{"Gavur Dagi Yangini", "Izmir Yangini", "Efes Yangini", "Kadifekale Yangini"},
		CorrectIndex: 1,
		CityCode:     "REG-EGE",
	},
	{
		Prompt:       "Bursa hangi devletin ilk baskentlerinden biridir?",
		Choices:      []string{"Selcuklu Devleti", "Osmanli Devleti", "Hitit Devleti", "Anadolu Beylikleri"},
		CorrectIndex: 1,
		CityCode:     "REG-MARMARA",
	},
	{
		Prompt:       "Eskisehir ve cevresinde cikarilan, cam yapiminda kullanilan mineral hangisidir?",
		Choices:      []string{"Bor", "Krom", "Tuz", "Linyit"},
		CorrectIndex: 0,
		CityCode:     "REG-IC-ANADOLU",
	},
	{
		Prompt:       "Antalya'daki antik tiyatrolariyla unlu antik kent hangisidir?",
		Choices:      []string{"Efes", "Perge", "Side", "Aspendos"},
		CorrectIndex: 3,
		CityCode:     "REG-AKDENIZ",
	},
	{
		Prompt:       "Trabzon'da bulunan ve Fatih Sultan Mehmet tarafindan fethedilen manastir hangisidir?",
		Choices:      []string{"Sumela Manastiri", "Aya Triada", "Aya Yorgi", "Aziz Nikola"},
		CorrectIndex: 0,
		CityCode:     "REG-KARADENIZ",
	},
	{
		Prompt:       "Turkiye'nin en genis karstik alanlarindan birine sahip bolgesi hangisidir?",
		Choices:      []string{"Marmara", "Ege", "Akdeniz", "Dogu Anadolu"},
		CorrectIndex: 2,
		Region:       "Akdeniz",
	},
	{
		Prompt:       "Milli Mucadele'nin basladigi kabul edilen tarih hangisidir?",
		Choices:      []string{"23 Nisan 1920", "19 Mayis 1919", "30 Agustos 1922", "29 Ekim 1923"},
		CorrectIndex: 1,
		Region:       "Karadeniz",
	},
	{
		Prompt:       "Konya hangi unlu mutasavvifin turbesiyle taninir?",
		Choices:      []string{"Haci Bektas Veli", "Yunus Emre", "Mevlana", "Ahmet Yesevi"},
		CorrectIndex: 2,
		CityCode:     "REG-IC-ANADOLU",
	},
	{
		Prompt:       "Canakkale Bogazi hangi iki denizi birbirine baglar?",
		Choices:      []string{"Karadeniz-Marmara", "Marmara-Ege", "Ege-Akdeniz", "Akdeniz-Karadeniz"},
		CorrectIndex: 1,
		CityCode:     "REG-MARMARA",
	},
	{
		Prompt:       "Diyarbakir'in UNESCO Dunya Mirasi Listesi'nde yer alan yapisi hangisidir?",
		Choices:      []string{"Hasankeyf", "Mardin Kalesi", "Diyarbakir Surlari", "Ishak Pasa Sarayi"},
		CorrectIndex: 2,
		CityCode:     "REG-GUNEYDOGU",
	},
	{
		Prompt:       "Gaziantep'in meshur tatlisi hangisidir?",
		Choices:      []string{"Baklava", "Kunefe", "Kadayif", "Lokum"},
		CorrectIndex: 0,
		CityCode:     "REG-GUNEYDOGU",
	},
	{
		Prompt:       "Van Golunun ozelligi nedir?",
		Choices:      []string{"Tatli su", "Soda icerikli", "En derin gol", "En buyuk gol"},
		CorrectIndex: 1,
		CityCode:     "REG-DOGU-ANADOLU",
	},
	{
		Prompt:       "Erzurum Kongresi hangi yil yapilmistir?",
		Choices:      []string{"1918", "1919", "1920", "1921"},
		CorrectIndex: 1,
		CityCode:     "REG-DOGU-ANADOLU",
	},
	{
		Prompt:       "Balikesir'in hangi ilcesi Ayvalik zeytinyagi ile unludur?",
		Choices:      []string{"Edremit", "Ayvalik", "Bandirma", "Gonen"},
		CorrectIndex: 1,
		CityCode:     "REG-MARMARA",
	},
	{
		Prompt:       "Denizli'nin UNESCO Dunya Mirasi Listesi'nde yer alan dogal yapisi hangisidir?",
		Choices:      []string{"Salda Golu", "Pamukkale", "Kaklik Magarasi", "Acigol"},
		CorrectIndex: 1,
		CityCode:     "REG-EGE",
	},
	{
		Prompt:       "Edirne'nin sembolu sayilan cami hangisidir?",
		Choices:      []string{"Uc Serefeli Cami", "Selimiye Camii", "Eski Cami", "Muradiye Camii"},
		CorrectIndex: 1,
		CityCode:     "REG-MARMARA",
	},
	{
		Prompt:       "Kayseri'nin antik cagdaki adi nedir?",
		Choices:      []string{"Efes", "Kayseria", "Mazaka", "Sivas"},
		CorrectIndex: 2,
		CityCode:     "REG-IC-ANADOLU",
	},
	{
		Prompt:       "Malatya hangi meyveyle unludur?",
		Choices:      []string{"Elma", "Kayisi", "Kiraz", "Uzum"},
		CorrectIndex: 1,
		CityCode:     "REG-DOGU-ANADOLU",
	},
	{
		Prompt:       "Manisa'nin tarihi adi nedir?",
		Choices:      []string{"Magnesia", "Smyrna", "Efes", "Pergamon"},
		CorrectIndex: 0,
		CityCode:     "REG-EGE",
	},
	{
		Prompt:       "Samsun hangi onemli olay icin baslangic noktasi kabul edilir?",
		Choices:      []string{"Cumhuriyetin ilani", "Kurtulus Savasi", "Lozan Antlasmasi", "Saltanatin kaldirilmasi"},
		CorrectIndex: 1,
		CityCode:     "REG-KARADENIZ",
	},
	{
		Prompt:       "Tekirdag'in meshur koftesi hangi ilceye aittir?",
		Choices:      []string{"Corlu", "Cerkezkoy", "Malkara", "Merkez"},
		CorrectIndex: 0,
		CityCode:     "REG-MARMARA",
	},
	{
		Prompt:       "Kirklareli'nin siniri olan ulke hangisidir?",
		Choices:      []string{"Yunanistan", "Bulgaristan", "Romanya", "Makedonya"},
		CorrectIndex: 1,
		CityCode:     "REG-MARMARA",
	},
}
