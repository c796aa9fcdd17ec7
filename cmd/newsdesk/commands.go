package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/johnrirwin/newsdesk/internal/auth"
	"github.com/johnrirwin/newsdesk/internal/models"
	"github.com/johnrirwin/newsdesk/internal/render"
	"github.com/johnrirwin/newsdesk/internal/report"
)

type command struct {
	summary string
	// public commands run without a stored session
	public bool
	run    func(ctx context.Context, c *cli, args []string) error
}

var commands = map[string]command{
	"login":          {summary: "Sign in and store the session", public: true, run: cmdLogin},
	"logout":         {summary: "Forget the stored session", public: true, run: cmdLogout},
	"whoami":         {summary: "Show the signed-in user", public: true, run: cmdWhoami},
	"articles":       {summary: "List articles with filters", run: cmdArticles},
	"article":        {summary: "Show one article", run: cmdArticle},
	"latest":         {summary: "List the newest articles", run: cmdLatest},
	"trending":       {summary: "List trending articles", run: cmdTrending},
	"search":         {summary: "Search articles", run: cmdSearch},
	"stats":          {summary: "Show corpus statistics", run: cmdStats},
	"feeds":          {summary: "Manage feed sources", run: cmdFeeds},
	"summarize":      {summary: "Summarise articles in a date range", run: cmdSummarize},
	"websearch":      {summary: "Run a grounded web search", run: cmdWebSearch},
	"summaries":      {summary: "List stored summaries", run: cmdSummaries},
	"search-history": {summary: "List past web searches", run: cmdSearchHistory},
	"wordfreq":       {summary: "Generate or show word frequency", run: cmdWordFreq},
	"report":         {summary: "Generate or show analytics reports", run: cmdReport},
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func (c *cli) usageError(format string, args ...interface{}) error {
	fmt.Fprintf(c.errOut, format+"\n", args...)
	return errUsage
}

func parseDateFlag(name, value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, ok := models.ParseDateFilter(value)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid -%s %q (use YYYY-MM-DD or DD.MM.YYYY)", name, value)
	}
	if endOfDay && len(value) == len("2006-01-02") {
		t = models.EndOfDay(t)
	}
	return t, nil
}

func cmdLogin(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("login")
	username := fs.String("u", c.getenv("NEWSDESK_USERNAME"), "Username")
	password := fs.String("p", "", "Password (read from NEWSDESK_PASSWORD or stdin when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *username == "" {
		if *username, err = c.readLine("Kullanıcı adı: "); err != nil {
			return err
		}
	}
	if *password == "" {
		*password = c.getenv("NEWSDESK_PASSWORD")
	}
	if *password == "" {
		if *password, err = c.readLine("Şifre: "); err != nil {
			return err
		}
	}

	result, err := c.app.AuthService.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("%s", result.Error)
	}

	fmt.Fprintf(c.out, "Giriş başarılı: %s (%s)\n", result.User.Username, result.User.Role)
	return nil
}

func cmdLogout(ctx context.Context, c *cli, args []string) error {
	if err := c.app.AuthService.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Çıkış yapıldı")
	return nil
}

func cmdWhoami(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("whoami")
	verify := fs.Bool("verify", false, "Check the token with the backend")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess := c.app.AuthService.Current()
	if *verify {
		sess = c.app.AuthService.Restore(ctx)
	}
	if !sess.Valid() {
		fmt.Fprintln(c.out, "Giriş yapılmamış")
		return nil
	}

	fmt.Fprintf(c.out, "%s (id %s, rol %s)\n", sess.User.Username, sess.User.ID, sess.User.Role)
	if exp, ok := auth.TokenExpiry(sess.Token); ok {
		fmt.Fprintf(c.out, "Token geçerlilik: %s\n", exp.Local().Format("02.01.2006 15:04"))
	}
	return nil
}

func cmdArticles(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("articles")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 20, "Articles per page")
	source := fs.String("source", "", "Source id")
	categoryID := fs.String("category-id", "", "Category id")
	categories := fs.String("categories", "", "Comma-separated category names")
	from := fs.String("from", "", "Start date")
	to := fs.String("to", "", "End date")
	search := fs.String("search", "", "Text search")
	if err := fs.Parse(args); err != nil {
		return err
	}

	params := models.ArticleParams{
		Page:       *page,
		Limit:      *limit,
		SourceID:   *source,
		CategoryID: *categoryID,
		Search:     strings.TrimSpace(*search),
	}
	if *categories != "" {
		params.CategoryNames = models.CanonicalCategories(strings.Split(*categories, ","))
	}
	var err error
	if params.StartDate, err = parseDateFlag("from", *from, false); err != nil {
		return c.usageError("%v", err)
	}
	if params.EndDate, err = parseDateFlag("to", *to, true); err != nil {
		return c.usageError("%v", err)
	}

	resp, err := c.app.Articles.List(ctx, params)
	if err != nil {
		return err
	}

	render.ArticleTable(c.out, resp.Data.Articles)
	p := resp.Data.Pagination
	fmt.Fprintf(c.out, "Sayfa %d/%d, toplam %d haber\n", p.Page, p.TotalPages, p.Total)
	return nil
}

func cmdArticle(ctx context.Context, c *cli, args []string) error {
	if len(args) != 1 {
		return c.usageError("usage: newsdesk article <id>")
	}

	resp, err := c.app.Articles.Get(ctx, args[0])
	if err != nil {
		return err
	}

	a := resp.Data
	fmt.Fprintln(c.out, a.Title)
	fmt.Fprintf(c.out, "%s | %s | %s\n", a.SourceName(), models.FormatDateTime(a.PubDate), strings.Join(a.CategoryNames(), ", "))
	fmt.Fprintln(c.out, a.Link)
	if body := firstNonEmpty(a.Content, a.Description); body != "" {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, render.PlainText(body))
	}
	return nil
}

func cmdLatest(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("latest")
	limit := fs.Int("limit", 10, "Number of articles")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := c.app.Articles.Latest(ctx, *limit)
	if err != nil {
		return err
	}
	render.ArticleTable(c.out, resp.Data.Articles)
	return nil
}

func cmdTrending(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("trending")
	limit := fs.Int("limit", 10, "Number of articles")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := c.app.Articles.Trending(ctx, *limit)
	if err != nil {
		return err
	}
	render.ArticleTable(c.out, resp.Data)
	return nil
}

func cmdSearch(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("search")
	limit := fs.Int("limit", 20, "Number of results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := c.app.Articles.Search(ctx, strings.Join(fs.Args(), " "), *limit)
	if err != nil {
		return err
	}
	render.ArticleTable(c.out, resp.Data)
	return nil
}

func cmdStats(ctx context.Context, c *cli, args []string) error {
	resp, err := c.app.Articles.Statistics(ctx)
	if err != nil {
		return err
	}
	render.StatisticsTable(c.out, resp.Data)
	return nil
}

func cmdFeeds(ctx context.Context, c *cli, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	feeds := c.app.Feeds
	switch sub {
	case "list":
		resp, err := feeds.List(ctx)
		if err != nil {
			return err
		}
		render.FeedTable(c.out, resp.Data)
		return nil

	case "add":
		if len(args) != 2 {
			return c.usageError("usage: newsdesk feeds add <name> <url>")
		}
		resp, err := feeds.Add(ctx, models.FeedInput{Name: args[0], URL: args[1]})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Kaynak eklendi: %s (%s)\n", resp.Data.Name, resp.Data.ID)
		return nil

	case "update":
		fs := c.flags("feeds update")
		name := fs.String("name", "", "New name")
		url := fs.String("url", "", "New URL")
		active := fs.String("active", "", "true or false")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return c.usageError("usage: newsdesk feeds update [-name n] [-url u] [-active true|false] <id>")
		}
		var update models.FeedUpdate
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				update.Name = name
			case "url":
				update.URL = url
			}
		})
		if *active != "" {
			b, err := strconv.ParseBool(*active)
			if err != nil {
				return c.usageError("invalid -active %q", *active)
			}
			update.IsActive = &b
		}
		resp, err := feeds.Update(ctx, fs.Arg(0), update)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Kaynak güncellendi: %s\n", resp.Data.Name)
		return nil

	case "enable", "disable":
		if len(args) != 1 {
			return c.usageError("usage: newsdesk feeds %s <id>", sub)
		}
		if _, err := feeds.SetActive(ctx, args[0], sub == "enable"); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Kaynak %s: %s\n", map[string]string{"enable": "etkin", "disable": "devre dışı"}[sub], args[0])
		return nil

	case "delete":
		if len(args) != 1 {
			return c.usageError("usage: newsdesk feeds delete <id>")
		}
		if _, err := feeds.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Kaynak silindi: %s\n", args[0])
		return nil

	case "check":
		if len(args) == 1 {
			resp, err := feeds.Check(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, firstNonEmpty(resp.Message, "Kaynak kontrol edildi"))
			return nil
		}
		fallthrough

	case "check-all":
		resp, err := feeds.CheckAll(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, firstNonEmpty(resp.Message, "Tüm kaynaklar kontrol edildi"))
		return nil

	case "fetch-all":
		resp, err := feeds.FetchAll(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, firstNonEmpty(resp.Message, "Tüm kaynaklar çekildi"))
		return nil
	}

	return c.usageError("unknown feeds command %q (list, add, update, enable, disable, delete, check, check-all, fetch-all)", sub)
}

func cmdSummarize(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("summarize")
	from := fs.String("from", "", "Start date (default: 24 hours ago)")
	to := fs.String("to", "", "End date (default: now)")
	prompt := fs.String("prompt", "", "Extra instructions for the summary")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := models.SummarizeRequest{Prompt: *prompt}
	req.StartDate, req.EndDate = models.DefaultSummaryRange(time.Now())
	if *from != "" {
		start, err := parseDateFlag("from", *from, false)
		if err != nil {
			return c.usageError("%v", err)
		}
		req.StartDate = start
	}
	if *to != "" {
		end, err := parseDateFlag("to", *to, true)
		if err != nil {
			return c.usageError("%v", err)
		}
		req.EndDate = end
	}

	resp, err := c.app.Gemini.Summarize(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s - %s, %d haber\n\n", models.FormatDay(req.StartDate), models.FormatDay(req.EndDate), resp.Data.ArticleCount)
	fmt.Fprintln(c.out, render.AIResponseText(resp.Data.Summary))
	return nil
}

func cmdWebSearch(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("websearch")
	days := fs.Int("days", 0, "Only use sources at most this many days old")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := c.app.Gemini.SearchWeb(ctx, strings.Join(fs.Args(), " "), *days)
	if err != nil {
		return err
	}

	res := resp.Data
	fmt.Fprintln(c.out, render.AIResponseText(res.DisplayText()))
	if len(res.Sources) > 0 {
		fmt.Fprintf(c.out, "\nKaynaklar (%d):\n", len(res.Sources))
		for i, s := range res.Sources {
			if s.Web == nil {
				continue
			}
			fmt.Fprintf(c.out, "  [%d] %s %s\n", i+1, s.Web.Title, s.Web.URI)
		}
	}
	return nil
}

func cmdSummaries(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("summaries")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 10, "Summaries per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := c.app.Gemini.Summaries(ctx, *page, *limit)
	if err != nil {
		return err
	}
	render.SummaryTable(c.out, resp.Data.Summaries)
	return nil
}

func cmdSearchHistory(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("search-history")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 10, "Entries per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := c.app.Gemini.SearchHistory(ctx, *page, *limit)
	if err != nil {
		return err
	}
	render.SearchHistoryTable(c.out, resp.Data.History)
	return nil
}

func cmdWordFreq(ctx context.Context, c *cli, args []string) error {
	sub := "latest"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}

	fs := c.flags("wordfreq " + sub)
	from := fs.String("from", "", "Start date")
	to := fs.String("to", "", "End date")
	limit := fs.Int("limit", 0, "Number of words the backend keeps")
	maxWords := fs.Int("max", report.DefaultMaxWords, "Words to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch sub {
	case "generate":
		req := models.WordFrequencyRequest{Limit: *limit}
		start, err := parseDateFlag("from", *from, false)
		if err != nil {
			return c.usageError("%v", err)
		}
		end, err := parseDateFlag("to", *to, true)
		if err != nil {
			return c.usageError("%v", err)
		}
		if !start.IsZero() {
			req.StartDate = &start
		}
		if !end.IsZero() {
			req.EndDate = &end
		}
		resp, err := c.app.Analytics.GenerateWordFrequency(ctx, req)
		if err != nil {
			return err
		}
		render.WordTable(c.out, report.BuildWordCloud(resp.Data.Words, *maxWords))
		return nil

	case "latest":
		resp, err := c.app.Analytics.LatestWordFrequency(ctx)
		if err != nil {
			return err
		}
		if resp.Data == nil {
			fmt.Fprintln(c.out, "Henüz kelime analizi yok")
			return nil
		}
		render.WordTable(c.out, report.BuildWordCloud(resp.Data.Words, *maxWords))
		return nil
	}

	return c.usageError("unknown wordfreq command %q (generate, latest)", sub)
}

func cmdReport(ctx context.Context, c *cli, args []string) error {
	sub := "latest"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}

	fs := c.flags("report " + sub)
	typ := fs.String("type", string(models.ReportDaily), "Report type: daily, weekly or monthly")
	limit := fs.Int("limit", 10, "History entries")
	html := fs.Bool("html", false, "Print sanitised HTML instead of text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	t, err := models.ParseReportType(*typ)
	if err != nil {
		return c.usageError("%v", err)
	}

	switch sub {
	case "latest":
		resp, err := c.app.Analytics.LatestReport(ctx, t)
		if err != nil {
			return err
		}
		if resp.Data == nil {
			fmt.Fprintf(c.out, "Henüz %s yok\n", strings.ToLower(t.Label()))
			return nil
		}
		c.printReport(*resp.Data, *html)
		return nil

	case "generate":
		resp, err := c.app.Analytics.GenerateReport(ctx, t)
		if err != nil {
			return err
		}
		c.printReport(resp.Data, *html)
		return nil

	case "history":
		resp, err := c.app.Analytics.ReportHistory(ctx, t, *limit)
		if err != nil {
			return err
		}
		render.ReportHistoryTable(c.out, resp.Data)
		return nil

	case "show":
		if fs.NArg() != 1 {
			return c.usageError("usage: newsdesk report show [-html] <id>")
		}
		resp, err := c.app.Analytics.Report(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		c.printReport(resp.Data, *html)
		return nil
	}

	return c.usageError("unknown report command %q (latest, generate, history, show)", sub)
}

func (c *cli) printReport(r models.Report, asHTML bool) {
	in := c.app.Interpreter.Interpret(r)
	body := render.InterpretationHTML(in)
	if asHTML {
		fmt.Fprintln(c.out, body)
		return
	}

	fmt.Fprintln(c.out, in.Summary.Title(r.Type))
	fmt.Fprintf(c.out, "%s - %s, %d haber\n", models.FormatDay(r.StartDate), models.FormatDay(r.EndDate), r.ArticleCount)
	if in.Sentiment != nil {
		fmt.Fprintln(c.out, render.SentimentLine(*in.Sentiment))
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, render.PlainText(body))
	if len(in.WordCloud) > 0 {
		fmt.Fprintln(c.out)
		render.WordTable(c.out, in.WordCloud[:min(len(in.WordCloud), report.SidebarWords)])
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
