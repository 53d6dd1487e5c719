package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/saathghoomo/go-saath/internal/api"
	"github.com/saathghoomo/go-saath/internal/chat"
	"github.com/saathghoomo/go-saath/internal/config"
	"github.com/saathghoomo/go-saath/internal/live"
	"github.com/saathghoomo/go-saath/internal/notifications"
	"github.com/saathghoomo/go-saath/internal/session"
	"github.com/saathghoomo/go-saath/internal/stats"
	"github.com/saathghoomo/go-saath/internal/types"
	"github.com/saathghoomo/go-saath/internal/wallet"
)

const usage = `usage: saathcli [flags] <command> [args]

commands:
  login <email> <password>
  register <name> <email> <password>
  google <id-token>
  logout
  profile
  notifications [watch|read <id>|read-all|delete <id>]
  chat <booking-id>
  wallet [withdraw <amount> <account> <ifsc> <holder>|transfer <amount> <email> [message]]
  bookings [partner]
  partners [pending|approve <id>|reject <id>]
  admin-stats
`

var (
	apiURL         string
	socketURL      string
	googleClientID string
	debugAddr      string
	tokenPath      string
)

type app struct {
	cfg           *config.Config
	log           *log.Logger
	notifier      *terminalNotifier
	nav           *terminalNavigator
	backend       *api.Client
	sessions      *session.Store
	manager       *live.Manager
	stats         *stats.StatsUpdater
	notifications *notifications.Store
	wallet        *wallet.Wallet
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	flag.StringVar(&apiURL, "api-url", os.Getenv("SAATH_API_BASE_URL"), "API base URL")
	flag.StringVar(&socketURL, "socket-url", os.Getenv("SAATH_SOCKET_URL"), "push channel URL (derived from api-url when empty)")
	flag.StringVar(&googleClientID, "google-client-id", os.Getenv("SAATH_GOOGLE_CLIENT_ID"), "Google OAuth client id")
	flag.StringVar(&debugAddr, "debug-addr", "", "serve /debug/vars on this address")
	flag.StringVar(&tokenPath, "token-path", "", "bearer token file (defaults to the user config dir)")
	flag.Parse()

	logger := log.New(os.Stderr, "[saath] ", log.LstdFlags)

	cfg, err := config.NewConfig(apiURL, socketURL, googleClientID)
	if err != nil {
		logger.Fatal("config: ", err)
	}

	if tokenPath == "" {
		tokenPath, err = session.DefaultTokenPath()
		if err != nil {
			logger.Fatal("token path: ", err)
		}
	}

	mux := http.NewServeMux()
	statsUpdater := stats.NewStatsUpdater(mux)
	statsUpdater.Run()
	defer statsUpdater.Stop()

	if debugAddr != "" {
		go func() {
			if err := http.ListenAndServe(debugAddr, mux); err != nil {
				logger.Println("debug server:", err)
			}
		}()
	}

	notifier := &terminalNotifier{out: os.Stdout}
	nav := &terminalNavigator{out: os.Stdout, current: types.DashboardPath}

	backend := api.NewClient(cfg, logger, statsUpdater)
	sessions := session.NewStore(backend, session.NewFileTokenStore(tokenPath), notifier, nav, logger, statsUpdater)
	backend.BindSession(sessions, sessions.ForceLogout)
	defer sessions.Close()

	tokenCh, cancelWatch := sessions.Watch()
	defer cancelWatch()
	manager := live.NewManager(cfg.SocketURL, sessions.Token(), tokenCh, logger, statsUpdater)

	a := &app{
		cfg:           cfg,
		log:           logger,
		notifier:      notifier,
		nav:           nav,
		backend:       backend,
		sessions:      sessions,
		manager:       manager,
		stats:         statsUpdater,
		notifications: notifications.NewStore(backend, notifier, nav, logger, statsUpdater),
		wallet:        wallet.New(backend, notifier, logger),
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		logger.Printf("received signal: %s", sig)
		cancel()
	}()

	if err := a.run(ctx, args); err != nil {
		logger.Fatal(err)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "login":
		if len(rest) != 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		user, err := a.sessions.Login(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Printf("signed in as %s (%s)\n", user.Name, user.Role)
		return nil
	case "register":
		if len(rest) != 3 {
			return fmt.Errorf("usage: register <name> <email> <password>")
		}
		user, err := a.sessions.Register(ctx, rest[0], rest[1], rest[2])
		if err != nil {
			return err
		}
		fmt.Printf("registered as %s (%s)\n", user.Name, user.Role)
		return nil
	case "google":
		if a.cfg.GoogleClientID == "" {
			return fmt.Errorf("Google sign-in is not configured: set SAATH_GOOGLE_CLIENT_ID")
		}
		if len(rest) != 1 {
			return fmt.Errorf("usage: google <id-token>")
		}
		user, err := a.sessions.GoogleLogin(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Printf("signed in as %s (%s)\n", user.Name, user.Role)
		return nil
	case "logout":
		a.sessions.Logout()
		return nil
	case "profile":
		if err := a.requireSession(ctx); err != nil {
			return err
		}
		user := a.sessions.User()
		fmt.Printf("%s <%s> role=%s id=%s\n", user.Name, user.Email, user.Role, user.Id)
		return nil
	case "notifications":
		return a.runNotifications(ctx, rest)
	case "chat":
		if len(rest) != 1 {
			return fmt.Errorf("usage: chat <booking-id>")
		}
		return a.runChat(ctx, rest[0])
	case "wallet":
		return a.runWallet(ctx, rest)
	case "bookings":
		return a.runBookings(ctx, rest)
	case "partners":
		return a.runPartners(ctx, rest)
	case "admin-stats":
		if err := a.requireSession(ctx); err != nil {
			return err
		}
		st, err := a.backend.AnalyticsStats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("users=%d partners=%d bookings=%d active=%d pending-applications=%d revenue=%.2f\n",
			st.TotalUsers, st.TotalPartners, st.TotalBookings, st.ActiveBookings,
			st.PendingApplications, st.TotalRevenue)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// requireSession refreshes the profile for the persisted token; the command
// fails when no valid session exists.
func (a *app) requireSession(ctx context.Context) error {
	if !a.sessions.IsAuthenticated() {
		return fmt.Errorf("not signed in, run: saathcli login <email> <password>")
	}
	if err := a.sessions.RefreshProfile(ctx); err != nil {
		return fmt.Errorf("session invalid: %w", err)
	}
	return nil
}

func (a *app) runNotifications(ctx context.Context, rest []string) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	if len(rest) == 0 {
		if err := a.notifications.FetchAll(ctx); err != nil {
			return err
		}
		printNotifications(a.notifications.Notifications(), a.notifications.UnreadCount())
		return nil
	}

	switch rest[0] {
	case "watch":
		go a.manager.Run(ctx)
		defer a.manager.Close()

		events, cancel := a.manager.Subscribe()
		defer cancel()

		if err := a.notifications.FetchAll(ctx); err != nil {
			return err
		}
		printNotifications(a.notifications.Notifications(), a.notifications.UnreadCount())
		fmt.Println("watching for notifications, ctrl-c to stop")
		a.notifications.Run(ctx, events)
		return nil
	case "read":
		if len(rest) != 2 {
			return fmt.Errorf("usage: notifications read <id>")
		}
		if err := a.notifications.FetchAll(ctx); err != nil {
			return err
		}
		return a.notifications.MarkAsRead(ctx, rest[1])
	case "read-all":
		if err := a.notifications.FetchAll(ctx); err != nil {
			return err
		}
		return a.notifications.MarkAllAsRead(ctx)
	case "delete":
		if len(rest) != 2 {
			return fmt.Errorf("usage: notifications delete <id>")
		}
		if err := a.notifications.FetchAll(ctx); err != nil {
			return err
		}
		return a.notifications.Delete(ctx, rest[1])
	default:
		return fmt.Errorf("unknown notifications subcommand %q", rest[0])
	}
}

func printNotifications(items []types.Notification, unread int) {
	fmt.Printf("%d notifications, %d unread\n", len(items), unread)
	for _, n := range items {
		marker := " "
		if !n.IsRead {
			marker = "*"
		}
		fmt.Printf("%s [%s] %s: %s (%s)\n", marker, n.Type, n.Title, n.Message, n.Id)
	}
}

func (a *app) runChat(ctx context.Context, bookingId string) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	go a.manager.Run(ctx)
	defer a.manager.Close()

	sess := chat.NewSession(a.backend, a.manager, *a.sessions.User(), bookingId,
		a.notifier, a.nav, a.log, a.stats)
	if err := sess.LoadHistory(ctx); err != nil {
		return err
	}
	sess.Connect(ctx)
	defer sess.Close()

	printHistory(sess)
	fmt.Printf("chatting with %s, type a message and press enter, ctrl-c to leave\n", sess.OtherParty())

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	printed := len(sess.Messages())

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := sess.Send(line); err != nil {
				a.log.Println("send:", err)
			}
			printed = len(sess.Messages())
		case <-ticker.C:
			msgs := sess.Messages()
			for _, m := range msgs[min(printed, len(msgs)):] {
				if !m.IsOwn {
					fmt.Printf("%s: %s\n", m.Sender.Name, m.Text)
				}
			}
			printed = len(msgs)
		case <-ctx.Done():
			return nil
		}
	}
}

func printHistory(sess *chat.Session) {
	for _, group := range chat.GroupByDay(sess.Messages(), time.Now()) {
		fmt.Printf("--- %s ---\n", group.Label)
		for _, m := range group.Messages {
			name := m.Sender.Name
			if m.IsOwn {
				name = "you"
			}
			fmt.Printf("[%s] %s: %s\n", m.Timestamp.Local().Format("3:04 PM"), name, m.Text)
		}
	}
}

func (a *app) runWallet(ctx context.Context, rest []string) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	if err := a.wallet.Fetch(ctx); err != nil {
		return err
	}

	if len(rest) == 0 {
		fmt.Printf("balance: %.2f SaathCoins\n", a.wallet.Balance())
		if code := a.wallet.ReferralCode(ctx); code != "" {
			fmt.Printf("referral code: %s\n", code)
		}
		for _, tx := range a.wallet.Transactions() {
			fmt.Printf("%s %s %.2f %s\n", tx.CreatedAt.Local().Format("2006-01-02"), tx.Type, tx.Amount, tx.Description)
		}
		return nil
	}

	switch rest[0] {
	case "withdraw":
		if len(rest) != 5 {
			return fmt.Errorf("usage: wallet withdraw <amount> <account> <ifsc> <holder>")
		}
		amount, err := strconv.ParseFloat(rest[1], 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", rest[1])
		}
		return a.wallet.Withdraw(ctx, amount, types.BankDetails{
			AccountNumber: rest[2],
			IFSC:          rest[3],
			AccountHolder: rest[4],
		})
	case "transfer":
		if len(rest) < 3 {
			return fmt.Errorf("usage: wallet transfer <amount> <email> [message]")
		}
		amount, err := strconv.ParseFloat(rest[1], 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", rest[1])
		}
		return a.wallet.Transfer(ctx, amount, rest[2], strings.Join(rest[3:], " "))
	default:
		return fmt.Errorf("unknown wallet subcommand %q", rest[0])
	}
}

func (a *app) runBookings(ctx context.Context, rest []string) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	var (
		bookings []types.Booking
		err      error
	)
	if len(rest) > 0 && rest[0] == "partner" {
		bookings, err = a.backend.PartnerBookings(ctx)
	} else {
		bookings, err = a.backend.MyBookings(ctx)
	}
	if err != nil {
		return err
	}

	for _, b := range bookings {
		fmt.Printf("%s %s with %s on %s [%s] %.2f\n",
			b.Id, b.Status, b.PartnerName, b.Date.Local().Format("2006-01-02"), b.Location, b.Amount)
	}
	return nil
}

func (a *app) runPartners(ctx context.Context, rest []string) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	if len(rest) == 0 {
		partners, err := a.backend.ListPartners(ctx)
		if err != nil {
			return err
		}
		for _, p := range partners {
			fmt.Printf("%s %s (%s) %.2f/hr rating %.1f\n", p.Id, p.Name, p.City, p.HourlyRate, p.Rating)
		}
		return nil
	}

	switch rest[0] {
	case "pending":
		apps, err := a.backend.PendingPartners(ctx)
		if err != nil {
			return err
		}
		for _, ap := range apps {
			fmt.Printf("%s %s (%s) %s\n", ap.Id, ap.Name, ap.City, ap.Status)
		}
		return nil
	case "approve":
		if len(rest) != 2 {
			return fmt.Errorf("usage: partners approve <id>")
		}
		return a.backend.ApprovePartner(ctx, rest[1])
	case "reject":
		if len(rest) != 2 {
			return fmt.Errorf("usage: partners reject <id>")
		}
		return a.backend.RejectPartner(ctx, rest[1])
	default:
		return fmt.Errorf("unknown partners subcommand %q", rest[0])
	}
}
