package config

import "situationroom/internal/domain"

// DefaultFeeds возвращает набор лент по умолчанию: по четыре на категорию.
func DefaultFeeds() []domain.FeedConfig {
	return []domain.FeedConfig{
		{Name: "Reuters World", URL: "https://feeds.reuters.com/Reuters/worldNews", Category: domain.CategoryWorld},
		{Name: "BBC World", URL: "https://feeds.bbci.co.uk/news/world/rss.xml", Category: domain.CategoryWorld},
		{Name: "AP News", URL: "https://rsshub.app/apnews/topics/apf-topnews", Category: domain.CategoryWorld},
		{Name: "Al Jazeera", URL: "https://www.aljazeera.com/xml/rss/all.xml", Category: domain.CategoryWorld},

		{Name: "Ars Technica", URL: "https://feeds.arstechnica.com/arstechnica/index", Category: domain.CategoryTech},
		{Name: "The Verge", URL: "https://www.theverge.com/rss/index.xml", Category: domain.CategoryTech},
		{Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Category: domain.CategoryTech},
		{Name: "Wired", URL: "https://www.wired.com/feed/rss", Category: domain.CategoryTech},

		{Name: "MarketWatch", URL: "https://feeds.marketwatch.com/marketwatch/topstories/", Category: domain.CategoryFinancial},
		{Name: "CNBC", URL: "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=100003114", Category: domain.CategoryFinancial},
		{Name: "Yahoo Finance", URL: "https://finance.yahoo.com/news/rssindex", Category: domain.CategoryFinancial},
		{Name: "Financial Times", URL: "https://www.ft.com/rss/home", Category: domain.CategoryFinancial},

		{Name: "Federal Register", URL: "https://www.federalregister.gov/documents/current.rss", Category: domain.CategoryGovernment},
		{Name: "White House", URL: "https://www.whitehouse.gov/feed/", Category: domain.CategoryGovernment},
		{Name: "Congress.gov", URL: "https://www.congress.gov/rss/most-viewed-bills.xml", Category: domain.CategoryGovernment},
		{Name: "State Dept", URL: "https://www.state.gov/rss-feed/press-releases/feed/", Category: domain.CategoryGovernment},
	}
}

// DefaultSituations возвращает отслеживаемые ситуации по умолчанию.
func DefaultSituations() []domain.Situation {
	return []domain.Situation{
		{ID: "venezuela", Name: "Venezuela Crisis", Status: domain.ThreatElevated,
			Keywords: []string{"venezuela", "maduro", "caracas", "pdvsa", "guaido"}},
		{ID: "greenland", Name: "Greenland Dispute", Status: domain.ThreatLow,
			Keywords: []string{"greenland", "denmark", "arctic", "thule", "nuuk"}},
		{ID: "taiwan", Name: "Taiwan Strait", Status: domain.ThreatElevated,
			Keywords: []string{"taiwan", "china", "tsmc", "taipei", "strait", "pla"}},
		{ID: "iran", Name: "Iran", Status: domain.ThreatHigh,
			Keywords: []string{"iran", "tehran", "nuclear", "irgc", "proxy"}},
		{ID: "us-domestic", Name: "US Domestic", Status: domain.ThreatElevated,
			Keywords: []string{"congress", "white house", "supreme court", "election", "capitol"}},
		{ID: "minnesota", Name: "Minnesota", Status: domain.ThreatLow,
			Keywords: []string{"minnesota", "minneapolis", "twin cities", "walz", "st paul"}},
	}
}

// DefaultTickerMappings возвращает группы ключевых слов и связанные с ними инструменты.
// Порядок групп важен: при поиске корреляций они перебираются сверху вниз.
func DefaultTickerMappings() []domain.TickerMapping {
	return []domain.TickerMapping{
		{Keywords: []string{"greenland", "arctic", "denmark", "nordic", "norway", "sweden"},
			Tickers: []string{"DXY", "USDNOK", "USDSEK", "LMT", "RTX", "NOC"}},
		{Keywords: []string{"fed", "federal reserve", "interest rate", "monetary policy", "powell", "fomc", "rate cut", "rate hike"},
			Tickers: []string{"SPY", "QQQ", "TLT", "GLD", "BTC", "EUR/USD"}},
		{Keywords: []string{"venezuela", "maduro", "caracas", "pdvsa"},
			Tickers: []string{"USO", "XLE", "COP", "OXY"}},
		{Keywords: []string{"china", "taiwan", "tsmc", "semiconductor", "xi jinping", "beijing", "taipei"},
			Tickers: []string{"TSM", "NVDA", "AMD", "SMH", "FXI"}},
		{Keywords: []string{"iran", "tehran", "middle east", "israel", "gaza", "hamas", "hezbollah", "yemen", "houthi"},
			Tickers: []string{"USO", "XLE", "GLD", "LMT", "RTX"}},
		{Keywords: []string{"crypto", "bitcoin", "ethereum", "sec crypto", "binance", "coinbase"},
			Tickers: []string{"BTC", "ETH", "COIN"}},
		{Keywords: []string{"russia", "ukraine", "putin", "kyiv", "kremlin", "nato"},
			Tickers: []string{"RSX", "ERUS", "GLD", "USO", "LMT", "RTX", "NOC"}},
		{Keywords: []string{"oil", "opec", "crude", "brent", "wti", "petroleum"},
			Tickers: []string{"USO", "XLE", "OXY", "COP", "CVX", "XOM"}},
		{Keywords: []string{"tech layoff", "meta", "google", "amazon", "microsoft", "apple"},
			Tickers: []string{"META", "GOOGL", "AMZN", "MSFT", "AAPL", "QQQ"}},
		{Keywords: []string{"ai", "artificial intelligence", "openai", "chatgpt", "claude", "llm"},
			Tickers: []string{"NVDA", "MSFT", "GOOGL", "AMD", "META"}},
	}
}
