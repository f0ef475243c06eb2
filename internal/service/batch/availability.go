package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/sbcntr-roombook/internal/common/config"
	"github.com/uma-arai/sbcntr-roombook/internal/common/database"
	"github.com/uma-arai/sbcntr-roombook/internal/common/utils"
	"github.com/uma-arai/sbcntr-roombook/internal/model"
	"github.com/uma-arai/sbcntr-roombook/internal/repository"
	"github.com/uma-arai/sbcntr-roombook/internal/scheduling"
)

// TaskSuccessSender はStep Functionsへタスク成功を通知します
// *sfn.Client が満たします
type TaskSuccessSender interface {
	SendTaskSuccess(ctx context.Context, params *sfn.SendTaskSuccessInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error)
}

// RoomAvailability は1会議室分の空き状況です
type RoomAvailability struct {
	RoomID    string           `json:"room_id"`
	RoomName  string           `json:"room_name"`
	Busy      bool             `json:"busy"`
	FreeSlots []model.TimeSlot `json:"free_slots"`
}

// AvailabilityReport は空き状況バッチの出力です
type AvailabilityReport struct {
	Date  string             `json:"date"`
	Rooms []RoomAvailability `json:"rooms"`
}

// AvailabilityBatchService は指定日の全会議室の空き状況を集計するバッチ処理を担当します
type AvailabilityBatchService struct {
	date        string
	db          *database.DB
	roomRepo    repository.RoomRepository
	bookingRepo repository.BookingRepository
	sfnClient   TaskSuccessSender
	clock       scheduling.Clock
	cfg         *config.Config
}

// NewAvailabilityBatchService は新しいAvailabilityBatchServiceを作成します
func NewAvailabilityBatchService(cfg *config.Config, sfnClient *sfn.Client) (*AvailabilityBatchService, error) {
	db, err := database.NewDB(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	// database.DBをrepository.DBに変換
	repoDb := &repository.DB{DB: db.DB}

	s := &AvailabilityBatchService{
		db:          db,
		roomRepo:    repository.NewRoomRepository(repoDb),
		bookingRepo: repository.NewBookingRepository(repoDb),
		clock:       scheduling.RealClock{Location: cfg.Location},
		cfg:         cfg,
	}
	// nilの*sfn.Clientをインターフェースに入れるとnil判定できなくなる
	if sfnClient != nil {
		s.sfnClient = sfnClient
	}
	return s, nil
}

// Close は終了処理を行います
func (s *AvailabilityBatchService) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SetArgs は集計対象の日付を設定します
// 空の場合は実行時の今日を集計します
func (s *AvailabilityBatchService) SetArgs(date string) {
	s.date = date
}

// Run は空き状況バッチ処理を実行します
func (s *AvailabilityBatchService) Run(ctx context.Context) error {
	// X-Rayセグメントの作成
	ctx, seg := xray.BeginSubsegment(ctx, "AvailabilityBatchService.Run")
	defer seg.Close(nil)

	startTime := time.Now()

	date := s.date
	if date == "" {
		date = scheduling.Today(s.clock.Now())
	}

	report, err := s.buildReport(ctx, date)
	if err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to build availability report for %s: %w", date, err))
	}

	if err := s.sendTaskSuccess(ctx, report); err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to send task success: %w", err))
	}

	duration := time.Since(startTime)

	// セグメントにメタデータを追加
	if err := seg.AddMetadata("duration", duration.String()); err != nil {
		log.Printf("Failed to add duration metadata: %v", err)
	}
	if err := seg.AddMetadata("room_count", len(report.Rooms)); err != nil {
		log.Printf("Failed to add room_count metadata: %v", err)
	}

	log.Printf("Availability batch process completed successfully. Duration: %v", duration)
	return nil
}

// buildReport は全会議室の空き状況を計算します
// 予約は日付単位で一度だけ取得します
func (s *AvailabilityBatchService) buildReport(ctx context.Context, date string) (*AvailabilityReport, error) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	bookings, err := s.bookingRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings on %s: %w", date, err)
	}

	log.Printf("Found %d rooms and %d bookings on %s", len(rooms), len(bookings), date)

	grid := scheduling.SlotGrid()
	report := &AvailabilityReport{Date: date, Rooms: make([]RoomAvailability, 0, len(rooms))}
	for _, room := range rooms {
		result, err := scheduling.Availability(room.ID, date, bookings, grid)
		if err != nil {
			return nil, err
		}
		report.Rooms = append(report.Rooms, RoomAvailability{
			RoomID:    room.ID,
			RoomName:  room.Name,
			Busy:      scheduling.IsRoomBusyOnDate(room.ID, date, bookings),
			FreeSlots: result.FreeSlots,
		})
	}
	return report, nil
}

// sendTaskSuccess は、Step Functionsのタスク成功を通知し、集計結果を返却します
func (s *AvailabilityBatchService) sendTaskSuccess(ctx context.Context, report *AvailabilityReport) error {
	// ローカルの場合はStep Functionsの処理をスキップ
	if s.cfg.Local || s.sfnClient == nil {
		log.Printf("Local environment detected. Skipping Step Functions task success notification")
		return nil
	}

	output, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal availability report: %w", err)
	}

	// タスクトークンを設定から取得
	taskToken := s.cfg.SFN.TaskToken
	if taskToken == "" {
		return fmt.Errorf("SFN_TASK_TOKEN is not set in config")
	}

	input := &sfn.SendTaskSuccessInput{
		TaskToken: aws.String(taskToken),
		Output:    aws.String(string(output)),
	}
	if _, err := s.sfnClient.SendTaskSuccess(ctx, input); err != nil {
		return fmt.Errorf("failed to send task success: %w", err)
	}

	log.Printf("Successfully sent task success with availability of %d rooms", len(report.Rooms))
	return nil
}
