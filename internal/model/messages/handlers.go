package messages

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/entity/datekey"
	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/analytics"
	"max.ks1230/expense-tracker/internal/model/exchange"
	"max.ks1230/expense-tracker/internal/model/notify"
	"max.ks1230/expense-tracker/internal/model/view"
)

const dateLayout = "02.01.2006"

const (
	dontUnderstandMessage = "I don't understand you :("
	helloMessage          = "Hello! I am ExpenseTracker bot 🤖\n\n" +
		"/add title; amount; [category]; [date dd.mm.yyyy]; [note] - record an expense\n" +
		"/del id - remove an expense\n" +
		"/list [yyyy-mm] [category] [sort] - browse a month\n" +
		"/report [yyyy-mm] - totals by category, budget usage\n" +
		"/trend [yyyy-mm|all] - daily or monthly totals\n" +
		"/top [n] - largest expenses this month\n" +
		"/budget [amount] - set or show the monthly budget\n" +
		"/export csv|json - download your data\n" +
		"Send a .csv or .json file to import expenses"
	loveToTalkMessage = "I would love to talk about it more!"
	okMessage         = "Gotcha!"
	noExpensesMessage = "You have no expenses for this month yet"

	incorrectUsageMessage    = "That is an incorrect command usage"
	incorrectExpenseMessage  = "Your expense amount is incorrect"
	incorrectDateMessage     = "The date is incorrect. Should be dd.mm.yyyy"
	incorrectMonthMessage    = "The month is incorrect. Should be yyyy-mm"
	incorrectBudgetMessage   = "Your budget amount is incorrect"
	recordNotFoundMessage    = "There is no expense with that id"
	cannotGetExpensesMessage = "Can't get your expenses atm. Try later"
	cannotSaveExpenseMessage = "Can't save your expense atm. Try later"

	exportUsageMessage       = "Choose a format: /export csv or /export json"
	importUnsupportedMessage = "I can only import .csv and .json files"
	importFailedMessage      = "Error importing file. Please check the file format"
	importNoNewMessage       = "No new expenses to import (all were duplicates)"
)

const (
	startCommand   = "/start"
	addCommand     = "/add"
	delCommand     = "/del"
	listCommand    = "/list"
	reportCommand  = "/report"
	trendCommand   = "/trend"
	topCommand     = "/top"
	budgetCommand  = "/budget"
	exportCommand  = "/export"
	trendAllOption = "all"
)

type recordStorage interface {
	GetRecords(ctx context.Context, userID int64) ([]expense.Record, error)
	AppendRecords(ctx context.Context, userID int64, recs []expense.Record) error
	DeleteRecord(ctx context.Context, userID int64, recordID string) (bool, error)
	GetBudget(ctx context.Context, userID int64) (float64, error)
	SetBudget(ctx context.Context, userID int64, budget float64) error
}

type reportCache interface {
	GetReport(userID int64, viewKey string) (string, bool)
	CacheReport(userID int64, viewKey string, report string) error
	InvalidateReports(userID int64) error
}

type notifyDispatcher interface {
	Dispatch(ctx context.Context, req notify.Request)
}

type config interface {
	TopExpensesCount() int
}

type handler func(ctx context.Context, arg string, userID int64) (Response, error)

type handlerMap map[string]handler

type HandlerService struct {
	handlersMap handlerMap
	storage     recordStorage
	cache       reportCache
	dispatcher  notifyDispatcher
	topCount    int
}

func newHandler(storage recordStorage, cache reportCache, dispatcher notifyDispatcher, config config) *HandlerService {
	res := &HandlerService{
		handlersMap: nil,
		storage:     storage,
		cache:       cache,
		dispatcher:  dispatcher,
		topCount:    config.TopExpensesCount(),
	}
	res.handlersMap = newMap(res)
	return res
}

func newMap(s *HandlerService) handlerMap {
	m := make(handlerMap)
	m[startCommand] = s.handleStart
	m[addCommand] = s.handleAdd
	m[delCommand] = s.handleDelete
	m[listCommand] = s.handleList
	m[reportCommand] = s.handleReport
	m[trendCommand] = s.handleTrend
	m[topCommand] = s.handleTop
	m[budgetCommand] = s.handleBudget
	m[exportCommand] = s.handleExport

	m[""] = s.handleNoCommand

	return m
}

func (s *HandlerService) HandleMessage(ctx context.Context, msg Message) (Response, error) {
	if msg.FileName != "" {
		return s.handleImport(ctx, msg)
	}

	cmd, arg := parseCommand(msg.Text)
	handler, ok := s.handlersMap[cmd]
	if ok {
		return handler(ctx, arg, msg.UserID)
	}
	return Response{Text: dontUnderstandMessage}, nil
}

func (s *HandlerService) handleStart(_ context.Context, _ string, _ int64) (Response, error) {
	return Response{Text: helloMessage}, nil
}

func (s *HandlerService) handleNoCommand(_ context.Context, _ string, _ int64) (Response, error) {
	return Response{Text: loveToTalkMessage}, nil
}

// handleAdd parses "title; amount[; category][; date][; note]". Title and
// amount are mandatory and validated before the store is touched; amount
// is parsed exactly once, here.
func (s *HandlerService) handleAdd(ctx context.Context, arg string, userID int64) (Response, error) {
	args := splitArgs(arg)
	if len(args) < 2 || args[0] == "" {
		return Response{Text: incorrectUsageMessage}, nil
	}

	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil || amount <= 0 {
		return Response{Text: incorrectExpenseMessage}, errors.Wrap(err, "handle add")
	}

	category, date, note := expense.Other, time.Now(), ""
	if len(args) > 2 && args[2] != "" {
		category = expense.NormalizeCategory(args[2])
	}
	if len(args) > 3 && args[3] != "" {
		date, err = time.Parse(dateLayout, args[3])
		if err != nil {
			return Response{Text: incorrectDateMessage}, errors.Wrap(err, "handle add")
		}
	}
	if len(args) > 4 {
		note = args[4]
	}

	rec := expense.Record{
		ID:       uuid.NewString(),
		Title:    args[0],
		Amount:   amount,
		Category: category,
		Date:     date.UTC(),
		Note:     note,
	}

	if err = s.storage.AppendRecords(ctx, userID, []expense.Record{rec}); err != nil {
		return Response{Text: cannotSaveExpenseMessage}, errors.Wrap(err, "handle add")
	}
	s.invalidateReports(userID)
	s.dispatchNotification(ctx, userID, rec)

	return Response{Text: okMessage}, nil
}

// dispatchNotification issues the fire-and-forget mail task with the
// month total the new record brings. The add path never waits for the
// outcome; the notifier worker reports it once settled.
func (s *HandlerService) dispatchNotification(ctx context.Context, userID int64, rec expense.Record) {
	if s.dispatcher == nil {
		return
	}

	records, err := s.storage.GetRecords(ctx, userID)
	if err != nil {
		logger.Error("cannot compute month total for notification", zap.Error(err))
		return
	}
	s.dispatcher.Dispatch(ctx, notify.Request{
		UserID:     userID,
		Record:     rec,
		MonthTotal: analytics.MonthTotal(records, datekey.Month(rec.Date)),
	})
}

func (s *HandlerService) handleDelete(ctx context.Context, arg string, userID int64) (Response, error) {
	recordID := strings.TrimSpace(arg)
	if recordID == "" {
		return Response{Text: incorrectUsageMessage}, nil
	}

	deleted, err := s.storage.DeleteRecord(ctx, userID, recordID)
	if err != nil {
		return Response{Text: cannotSaveExpenseMessage}, errors.Wrap(err, "handle delete")
	}
	if !deleted {
		return Response{Text: recordNotFoundMessage}, nil
	}

	s.invalidateReports(userID)
	return Response{Text: okMessage}, nil
}

func (s *HandlerService) handleList(ctx context.Context, arg string, userID int64) (Response, error) {
	month, category, sortOption := datekey.Month(time.Now()), view.CategoryAll, view.SortDateDesc
	for _, tok := range strings.Fields(arg) {
		switch {
		case isMonthKey(tok):
			month = tok
		case view.ValidSort(tok):
			sortOption = tok
		default:
			cat, ok := matchCategory(tok)
			if !ok {
				return Response{Text: incorrectUsageMessage}, nil
			}
			category = cat
		}
	}

	records, err := s.storage.GetRecords(ctx, userID)
	if err != nil {
		return Response{Text: cannotGetExpensesMessage}, errors.Wrap(err, "handle list")
	}

	filtered := view.Apply(records, month, category, sortOption)
	if len(filtered) == 0 {
		return Response{Text: noExpensesMessage}, nil
	}
	return Response{Text: renderRecords(filtered)}, nil
}

func (s *HandlerService) handleReport(ctx context.Context, arg string, userID int64) (Response, error) {
	month := strings.TrimSpace(arg)
	if month == "" {
		month = datekey.Month(time.Now())
	} else if !isMonthKey(month) {
		return Response{Text: incorrectMonthMessage}, nil
	}

	viewKey := reportViewKey(month)
	if s.cache != nil {
		if cached, hit := s.cache.GetReport(userID, viewKey); hit {
			return Response{Text: cached}, nil
		}
	}

	records, err := s.storage.GetRecords(ctx, userID)
	if err != nil {
		return Response{Text: cannotGetExpensesMessage}, errors.Wrap(err, "handle report")
	}

	monthRecords := view.Apply(records, month, view.CategoryAll, view.SortDateDesc)
	if len(monthRecords) == 0 {
		return Response{Text: noExpensesMessage}, nil
	}

	budget, err := s.storage.GetBudget(ctx, userID)
	if err != nil {
		return Response{Text: cannotGetExpensesMessage}, errors.Wrap(err, "handle report")
	}

	total := analytics.TotalSum(monthRecords)
	prevTotal := 0.0
	if prevKey, prevErr := datekey.PrevMonth(month); prevErr == nil {
		prevTotal = analytics.MonthTotal(records, prevKey)
	}

	report := renderReport(month, analytics.CategoryTotals(monthRecords),
		analytics.Usage(total, budget), total, prevTotal,
		analytics.AverageDailySpend(monthRecords))

	if s.cache != nil {
		if cacheErr := s.cache.CacheReport(userID, viewKey, report); cacheErr != nil {
			logger.Error("cannot cache report", zap.Error(cacheErr))
		}
	}
	return Response{Text: report}, nil
}

func (s *HandlerService) handleTrend(ctx context.Context, arg string, userID int64) (Response, error) {
	records, err := s.storage.GetRecords(ctx, userID)
	if err != nil {
		return Response{Text: cannotGetExpensesMessage}, errors.Wrap(err, "handle trend")
	}

	arg = strings.TrimSpace(arg)
	if arg == trendAllOption {
		totals := analytics.MonthlyTotals(records)
		if len(totals) == 0 {
			return Response{Text: noExpensesMessage}, nil
		}
		return Response{Text: renderTotals("Monthly totals:", totals)}, nil
	}

	month := arg
	if month == "" {
		month = datekey.Month(time.Now())
	} else if !isMonthKey(month) {
		return Response{Text: incorrectMonthMessage}, nil
	}

	monthRecords := view.Apply(records, month, view.CategoryAll, view.SortDateDesc)
	totals := analytics.DailyTotals(monthRecords)
	if len(totals) == 0 {
		return Response{Text: noExpensesMessage}, nil
	}
	return Response{Text: renderTotals("Daily totals for "+month+":", totals)}, nil
}

func (s *HandlerService) handleTop(ctx context.Context, arg string, userID int64) (Response, error) {
	n := s.topCount
	if arg = strings.TrimSpace(arg); arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil || parsed <= 0 {
			return Response{Text: incorrectUsageMessage}, nil
		}
		n = parsed
	}

	records, err := s.storage.GetRecords(ctx, userID)
	if err != nil {
		return Response{Text: cannotGetExpensesMessage}, errors.Wrap(err, "handle top")
	}

	month := datekey.Month(time.Now())
	top := analytics.TopN(view.Apply(records, month, view.CategoryAll, view.SortDateDesc), n)
	if len(top) == 0 {
		return Response{Text: noExpensesMessage}, nil
	}
	return Response{Text: renderTop(top)}, nil
}

func (s *HandlerService) handleBudget(ctx context.Context, arg string, userID int64) (Response, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return s.showBudget(ctx, userID)
	}

	budget, err := strconv.ParseFloat(arg, 64)
	if err != nil || budget < 0 {
		return Response{Text: incorrectBudgetMessage}, errors.Wrap(err, "handle budget")
	}
	if err = s.storage.SetBudget(ctx, userID, budget); err != nil {
		return Response{Text: cannotSaveExpenseMessage}, errors.Wrap(err, "handle budget")
	}
	// every cached report of this user carries a budget line
	s.invalidateReports(userID)
	return Response{Text: okMessage}, nil
}

func (s *HandlerService) showBudget(ctx context.Context, userID int64) (Response, error) {
	budget, err := s.storage.GetBudget(ctx, userID)
	if err != nil {
		return Response{Text: cannotGetExpensesMessage}, errors.Wrap(err, "show budget")
	}

	records, err := s.storage.GetRecords(ctx, userID)
	if err != nil {
		return Response{Text: cannotGetExpensesMessage}, errors.Wrap(err, "show budget")
	}

	total := analytics.CurrentMonthTotal(records, time.Now())
	return Response{Text: renderBudget(analytics.Usage(total, budget))}, nil
}

func (s *HandlerService) handleExport(ctx context.Context, arg string, userID int64) (Response, error) {
	format := exchange.Format(strings.ToLower(strings.TrimSpace(arg)))
	if format != exchange.FormatCSV && format != exchange.FormatJSON {
		return Response{Text: exportUsageMessage}, nil
	}

	records, err := s.storage.GetRecords(ctx, userID)
	if err != nil {
		return Response{Text: cannotGetExpensesMessage}, errors.Wrap(err, "handle export")
	}

	var data []byte
	if format == exchange.FormatCSV {
		data, err = exchange.ExportCSV(records)
	} else {
		data, err = exchange.ExportJSON(records)
	}
	if err != nil {
		return Response{Text: cannotGetExpensesMessage}, errors.Wrap(err, "handle export")
	}

	return Response{
		FileName: exchange.FileName(format, time.Now()),
		FileData: data,
	}, nil
}

// handleImport runs the reconciler over an uploaded file. A payload that
// cannot be decoded fails as a whole; duplicates are dropped one by one
// and never remove anything already stored.
func (s *HandlerService) handleImport(ctx context.Context, msg Message) (Response, error) {
	format, ok := exchange.DetectFormat(msg.FileName)
	if !ok {
		return Response{Text: importUnsupportedMessage}, nil
	}

	candidates, err := exchange.Parse(msg.FileData, format, time.Now())
	if err != nil {
		logger.Warn("import parse failed",
			zap.Int64("userID", msg.UserID), zap.String("file", msg.FileName), zap.Error(err))
		return Response{Text: importFailedMessage}, nil
	}

	existing, err := s.storage.GetRecords(ctx, msg.UserID)
	if err != nil {
		return Response{Text: cannotGetExpensesMessage}, errors.Wrap(err, "handle import")
	}

	accepted := exchange.Merge(existing, candidates)
	if len(accepted) == 0 {
		return Response{Text: importNoNewMessage}, nil
	}

	if err = s.storage.AppendRecords(ctx, msg.UserID, accepted); err != nil {
		return Response{Text: cannotSaveExpenseMessage}, errors.Wrap(err, "handle import")
	}

	s.invalidateReports(msg.UserID)

	return Response{Text: renderImported(len(accepted))}, nil
}

// invalidateReports drops every cached render of the user. A report
// depends on more than its own month (budget line, previous-month
// comparison), so any mutation stales all of them.
func (s *HandlerService) invalidateReports(userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateReports(userID); err != nil {
		logger.Error("cannot invalidate cached reports", zap.Error(err))
	}
}
