// Command vault is a CLI client for the CardVault service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/tcg-tools/cardvault/internal/scan"
)

// ---- config/token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "cardvault")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cardvault")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok string, exp time.Time) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.Create(tokenPath())
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{AccessToken: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", errors.New("no valid token (login required)")
	}
	return tf.AccessToken, nil
}

// ---- utils ----

func queryEscape(s string) string { return url.QueryEscape(s) }

func readAll(p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(p)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `vault CLI
Usage:
  vault -addr URL <cmd> [args]

Commands:
  version
  register     -u <username> -p <password>
  login        -u <username> -p <password>           (saves token)
  search       -q <name> [-set <setID>]
  suggest      -q <prefix>
  card         -id <cardID>
  add          -id <cardID> [-n <qty>] [-cond <condition>] [-notes <text>]
  list
  quantity     -item <uuid> -n <qty>                  (0 removes)
  remove       -item <uuid>
  stats
  albums
  album-create -name <name> [-desc <text>] [-public]
  album-add    -album <uuid> -id <cardID> [-notes <text>]
  album-cards  -album <uuid>
  prices       -q <name>
  dbstats
  scan         -file <path|->                         (parse card text, then search)
`)
	os.Exit(2)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands against the HTTP API.
func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd {

	case "version":
		fmt.Printf("vault %s (%s)\n", version, buildDate)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		u := fs.String("u", "", "username")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *u == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -u and -p")
			os.Exit(1)
		}
		userID, err := newAPIClient(*addr, "").register(ctx, *u, *p)
		if err != nil {
			fail(err)
		}
		fmt.Println(userID)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		u := fs.String("u", "", "username")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *u == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -u and -p")
			os.Exit(1)
		}
		res, err := newAPIClient(*addr, "").login(ctx, *u, *p)
		if err != nil {
			fail(err)
		}
		if err := saveToken(res.AccessToken, res.ExpiresAt); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "search":
		fs := flag.NewFlagSet("search", flag.ExitOnError)
		q := fs.String("q", "", "card name")
		set := fs.String("set", "", "set ID filter")
		_ = fs.Parse(args)
		if *q == "" {
			fmt.Fprintln(os.Stderr, "need -q")
			os.Exit(1)
		}
		res, err := newAPIClient(*addr, "").searchCards(ctx, *q, *set)
		if err != nil {
			fail(err)
		}
		fmt.Printf("%d cards (source: %s, %dms)\n", res.TotalCount, res.Source, res.ProcessingTime)
		for _, c := range res.Cards {
			fmt.Printf("  %-14s %-24s %s #%s\n", c.ID, c.Name, c.Set.Name, c.Number)
		}

	case "suggest":
		fs := flag.NewFlagSet("suggest", flag.ExitOnError)
		q := fs.String("q", "", "name prefix")
		_ = fs.Parse(args)
		names, err := newAPIClient(*addr, "").suggest(ctx, *q)
		if err != nil {
			fail(err)
		}
		for _, n := range names {
			fmt.Println(n)
		}

	case "card":
		fs := flag.NewFlagSet("card", flag.ExitOnError)
		id := fs.String("id", "", "card ID")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		card, err := newAPIClient(*addr, "").getCard(ctx, *id)
		if err != nil {
			fail(err)
		}
		printJSON(card)

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		id := fs.String("id", "", "card ID")
		n := fs.Int("n", 1, "quantity")
		cond := fs.String("cond", "", "condition")
		notes := fs.String("notes", "", "notes")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		cli := newAPIClient(*addr, token)
		card, err := cli.getCard(ctx, *id)
		if err != nil {
			fail(err)
		}
		itemID, err := cli.addToCollection(ctx, addCardBody{
			Card:      *card,
			Quantity:  *n,
			Condition: *cond,
			Notes:     *notes,
		})
		if err != nil {
			fail(err)
		}
		fmt.Println(itemID)

	case "list":
		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		items, err := newAPIClient(*addr, token).listCollection(ctx)
		if err != nil {
			fail(err)
		}
		for _, it := range items {
			fmt.Printf("  %s  %-14s x%-3d %s\n", it.ID, it.CardID, it.Quantity, it.Condition)
		}

	case "quantity":
		fs := flag.NewFlagSet("quantity", flag.ExitOnError)
		item := fs.String("item", "", "collection item UUID")
		n := fs.Int("n", -1, "new quantity")
		_ = fs.Parse(args)
		if *item == "" || *n < 0 {
			fmt.Fprintln(os.Stderr, "need -item and -n")
			os.Exit(1)
		}
		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		if err := newAPIClient(*addr, token).updateQuantity(ctx, *item, *n); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "remove":
		fs := flag.NewFlagSet("remove", flag.ExitOnError)
		item := fs.String("item", "", "collection item UUID")
		_ = fs.Parse(args)
		if *item == "" {
			fmt.Fprintln(os.Stderr, "need -item")
			os.Exit(1)
		}
		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		if err := newAPIClient(*addr, token).removeFromCollection(ctx, *item); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "stats":
		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		st, err := newAPIClient(*addr, token).stats(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(st)

	case "albums":
		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		albums, err := newAPIClient(*addr, token).listAlbums(ctx)
		if err != nil {
			fail(err)
		}
		for _, a := range albums {
			visibility := "private"
			if a.IsPublic {
				visibility = "public"
			}
			fmt.Printf("  %s  %-24s %3d cards (%s)\n", a.ID, a.Name, a.CardCount, visibility)
		}

	case "album-create":
		fs := flag.NewFlagSet("album-create", flag.ExitOnError)
		name := fs.String("name", "", "album name")
		desc := fs.String("desc", "", "description")
		public := fs.Bool("public", false, "publicly readable")
		_ = fs.Parse(args)
		if *name == "" {
			fmt.Fprintln(os.Stderr, "need -name")
			os.Exit(1)
		}
		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		a, err := newAPIClient(*addr, token).createAlbum(ctx, *name, *desc, *public)
		if err != nil {
			fail(err)
		}
		fmt.Println(a.ID)

	case "album-add":
		fs := flag.NewFlagSet("album-add", flag.ExitOnError)
		album := fs.String("album", "", "album UUID")
		id := fs.String("id", "", "card ID")
		notes := fs.String("notes", "", "notes")
		_ = fs.Parse(args)
		if *album == "" || *id == "" {
			fmt.Fprintln(os.Stderr, "need -album and -id")
			os.Exit(1)
		}
		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		if err := newAPIClient(*addr, token).addCardToAlbum(ctx, *album, *id, *notes); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "album-cards":
		fs := flag.NewFlagSet("album-cards", flag.ExitOnError)
		album := fs.String("album", "", "album UUID")
		_ = fs.Parse(args)
		if *album == "" {
			fmt.Fprintln(os.Stderr, "need -album")
			os.Exit(1)
		}
		token, err := loadToken()
		if err != nil {
			fail(err)
		}
		views, err := newAPIClient(*addr, token).albumCards(ctx, *album)
		if err != nil {
			fail(err)
		}
		for _, v := range views {
			fmt.Printf("  %-14s %-24s x%d\n", v.Card.ID, v.Card.Name, v.Item.Quantity)
		}

	case "prices":
		fs := flag.NewFlagSet("prices", flag.ExitOnError)
		q := fs.String("q", "", "card name")
		_ = fs.Parse(args)
		if *q == "" {
			fmt.Fprintln(os.Stderr, "need -q")
			os.Exit(1)
		}
		listings, err := newAPIClient(*addr, "").cardPrices(ctx, *q)
		if err != nil {
			fail(err)
		}
		for _, l := range listings {
			fmt.Printf("  %-12s %8.2f  %-18s %s\n", l.Platform, l.Price, l.Condition, l.Seller)
		}

	case "dbstats":
		st, err := newAPIClient(*addr, "").datasetStats(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(st)

	case "scan":
		fs := flag.NewFlagSet("scan", flag.ExitOnError)
		file := fs.String("file", "", "card text file ('-' for stdin)")
		_ = fs.Parse(args)
		if *file == "" {
			fmt.Fprintln(os.Stderr, "need -file")
			os.Exit(1)
		}
		text, err := readAll(*file)
		if err != nil {
			fail(err)
		}
		res := scan.Parse(string(text))
		printJSON(res)
		if res.CardName == "" {
			fmt.Fprintln(os.Stderr, "no card name recognized")
			os.Exit(1)
		}
		query := res.CardName
		found, err := newAPIClient(*addr, "").searchCards(ctx, query, "")
		if err != nil {
			fail(err)
		}
		fmt.Printf("%d matches for %q\n", found.TotalCount, query)
		for _, c := range found.Cards {
			fmt.Printf("  %-14s %-24s %s #%s\n", c.ID, c.Name, c.Set.Name, c.Number)
		}

	default:
		usage()
	}
}
