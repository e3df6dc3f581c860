package collector

import (
	"fmt"
	"strings"
	"time"

	"MarketBulletin/internal/config"
)

func testSource(url string) config.SourceConfig {
	return config.SourceConfig{URL: url, Timeout: 5 * time.Second, MaxPages: 4, MinUniqueDays: 10}
}

func flowPage(dates ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><table><thead><tr><th>Date</th></tr></thead><tbody>")
	for _, d := range dates {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>12,000.10</td><td>13,000.60</td><td>-1,000.50</td>"+
			"<td>9,000</td><td>7,000</td><td>+2,000.25</td></tr>", d)
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}

const goldPage = `<html><body>
<div class="gold-rate-container">
  <div class="gold-each-container"><div class="gold-top">24K</div>
    <div class="gold-bottom"><p>₹7,245</p><p>+ ₹10</p></div></div>
  <div class="gold-each-container"><div class="gold-top">22K</div>
    <div class="gold-bottom"><p>₹6,641</p><p>- ₹5</p></div></div>
</div>
<table><tr><th>City</th><th>Price</th></tr><tr><td>Chennai</td><td>1</td></tr></table>
<table>
  <tr><th>Date</th><th>24K</th><th>22K</th></tr>
  <tr><td>Mar 05, 2024</td><td>₹7,245 <span class="green-span">(+10)</span></td><td>₹6,641 <span class="green-span">(+9)</span></td></tr>
  <tr><td>Mar 04, 2024</td><td>₹7,235 <span class="red-span">(15)</span></td><td>₹6,632 <span class="red-span">(14)</span></td></tr>
</table>
</body></html>`

const newsPage = `<html><body>
<ul class="article_listing">
  <li class="clearfix"><h2><a href="https://example.com/a">Sensex rallies 500 points</a></h2><p>Banks lead gains.</p></li>
  <li class="clearfix"><h2>No link here</h2><p>Dropped.</p></li>
  <li class="clearfix"><h2><a href="https://example.com/b">Rupee steady</a></h2><p>Flat against the dollar.</p></li>
</ul>
</body></html>`

const optionChainJSON = `{"records":{"timestamp":"05-Mar-2024 15:30:00","data":[
 {"strikePrice":22000,"expiryDate":"07-Mar-2024","PE":{"openInterest":1200},"CE":{"openInterest":800}},
 {"strikePrice":22100,"expiryDate":"07-Mar-2024","PE":{"openInterest":300}},
 {"strikePrice":22200,"expiryDate":"07-Mar-2024","CE":{"openInterest":400}}
]}}`

const yahooJSON = `{"chart":{"result":[{"meta":{"currency":"INR","symbol":"^NSEI","regularMarketPrice":22450.5,"chartPreviousClose":22300},
"timestamp":[1709510400,1709596800,1709683200],
"indicators":{"quote":[{"open":[22000,null,22400],"high":[22100,null,22500],"low":[21900,null,22350],"close":[22050,null,22450.5],"volume":[1000,null,2000]}]}}],"error":null}}`
