package client

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog" // 导入 slog
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pelletier/go-toml/v2"
	"github.com/sempr/judge-core-go/internal/judge"
	"github.com/sempr/judge-core-go/pkg/constants"
	"github.com/sempr/judge-core-go/pkg/models"
)

// statusToOJ maps the judge core's text verdict onto the legacy
// integer status codes the solution/users/problem tables expect.
func statusToOJ(status judge.Status) int {
	switch status {
	case judge.StatusOK:
		return constants.OJ_AC
	case judge.StatusTLE:
		return constants.OJ_TL
	case judge.StatusMLE:
		return constants.OJ_ML
	case judge.StatusOLE:
		return constants.OJ_OL
	case judge.StatusRE:
		return constants.OJ_RE
	case judge.StatusCE:
		return constants.OJ_CE
	default:
		return constants.OJ_SE
	}
}

// 配置变量 (简化 C++ 中的全局变量)
var (
	dbHost         string
	dbPort         int
	dbUser         string
	dbPass         string
	dbName         string
	ojHome         string
	tbName         string = "solution"  // 默认表名
	httpJudgerName string = "go_judger" // 充当 judger 字段
)

type langBasic struct {
	Name   string `toml:"name"`
	ID     int    `toml:"id"`
	Suffix string `toml:"suffix"`
}

type langConfigs struct {
	Lang []langBasic `toml:"lang"`
}

var langMaps map[int]langBasic

func getLangMaps(path string) map[int]langBasic {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: 无法读取文件: %v\n", err)
		os.Exit(1)
	}

	// 声明一个 Config 变量，用于存储解析后的数据
	var tempConfig langConfigs

	// 使用 toml.Unmarshal 将文件内容解析到 config 变量中
	err = toml.Unmarshal(data, &tempConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: 无法解析 TOML: %v\n", err)
		os.Exit(1)
	}

	langMap := make(map[int]langBasic)

	// 4. 遍历解析出的切片 (tempConfig.Lang)，将其填充到 Map 中
	for _, lang := range tempConfig.Lang {
		langMap[lang.ID] = lang
	}
	return langMap
}

// initJudgeConf (使用 slog)
// 从 /home/judge/etc/judge.conf 读取配置
func initJudgeConf(homePath string) {
	ojHome = homePath

	// 1. 设置默认值
	dbHost = "127.0.0.1"
	dbPort = 3306
	dbUser = "root"
	dbPass = "password" // 默认值，应在配置文件中覆盖
	dbName = "hustoj"

	slog.Info("正在加载配置...")

	// 2. 构造配置文件路径
	confPath := filepath.Join(ojHome, "etc", "judge.conf")
	slog.Info("尝试读取配置文件", "path", confPath)

	// 3. 打开并解析文件
	file, err := os.Open(confPath)
	if err != nil {
		slog.Warn("配置文件未找到，将使用默认值", "path", confPath)
		// 记录正在使用的默认值
		slog.Info("  使用默认值", "OJ_HOME", ojHome)
		slog.Info("  使用默认值", "DB_HOST", dbHost)
		slog.Info("  使用默认值", "DB_PORT", dbPort)
		slog.Info("  使用默认值", "DB_NAME", dbName)
		return
	}
	defer file.Close()

	// 4. 解析键值对 (key=value)
	config := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		config[key] = value
	}

	if err := scanner.Err(); err != nil {
		slog.Warn("读取配置文件时出错，将尽可能使用已解析的值", "error", err)
	}

	// 5. 使用配置文件中的值覆盖默认值
	if val, ok := config["OJ_HOST_NAME"]; ok {
		dbHost = val
	}
	if val, ok := config["OJ_PORT_NUMBER"]; ok {
		if port, err := strconv.Atoi(val); err == nil {
			dbPort = port
		} else {
			slog.Warn("无效的 OJ_PORT_NUMBER", "value", val, "default", dbPort)
		}
	}
	if val, ok := config["OJ_USER_NAME"]; ok {
		dbUser = val
	}
	if val, ok := config["OJ_PASSWORD"]; ok {
		dbPass = val
	}
	if val, ok := config["OJ_DB_NAME"]; ok {
		dbName = val
	}

	// 6. 记录最终配置 (注意：不要记录密码)
	slog.Info("配置加载成功")
	slog.Info("  OJ_HOME", "value", ojHome)
	slog.Info("  DB_HOST", "value", dbHost)
	slog.Info("  DB_PORT", "value", dbPort)
	slog.Info("  DB_NAME", "value", dbName)
	slog.Info("  DB_USER", "value", dbUser)
}

// --- 数据库交互 ---

var db *sql.DB

// initMySQLConn (使用 slog)
func initMySQLConn() error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8",
		dbUser, dbPass, dbHost, dbPort, dbName)

	var err error
	db, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("无法打开数据库连接: %v", err)
	}

	db.SetConnMaxLifetime(time.Minute * 3)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	if err = db.Ping(); err != nil {
		return fmt.Errorf("无法连接到数据库: %v", err)
	}

	if _, err = db.Exec("SET NAMES utf8"); err != nil {
		return fmt.Errorf("无法设置 UTF8: %v", err)
	}

	slog.Info("数据库连接成功")
	return nil
}

// getSolutionInfo 对应 C++ 的 _get_solution_info_mysql
func getSolutionInfo(solutionID int) (pID int, userID string, lang int, cID int, err error) {
	query := fmt.Sprintf("SELECT problem_id, user_id, language, contest_id FROM %s WHERE solution_id = ?", tbName)
	var nullCID sql.NullInt64
	err = db.QueryRow(query, solutionID).Scan(&pID, &userID, &lang, &nullCID)
	if err != nil {
		return 0, "", 0, 0, fmt.Errorf("获取提交信息失败: %v", err)
	}
	if nullCID.Valid {
		cID = int(nullCID.Int64)
	} else {
		cID = 0
	}
	return pID, userID, lang, cID, nil
}

// getProblemInfo 对应 C++ 的 _get_problem_info_mysql
func getProblemInfo(pID int) (timeLimit float64, memLimit int, spj int, err error) {
	query := "SELECT time_limit, memory_limit, spj FROM problem WHERE problem_id = ?"
	err = db.QueryRow(query, pID).Scan(&timeLimit, &memLimit, &spj)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("获取题目信息失败: %v", err)
	}
	return timeLimit, memLimit, spj, nil
}

// getSolution 对应 C++ 的 _get_solution_mysql
func getSolution(solutionID int) (source string, err error) {
	query := "SELECT source FROM source_code WHERE solution_id = ?"
	err = db.QueryRow(query, solutionID).Scan(&source)
	if err != nil {
		return "", fmt.Errorf("获取源代码失败: %v", err)
	}
	return source, nil
}

// updateSolution (使用 slog)
func updateSolution(solutionID int, result int, time int, memory int, passRate float64) error {
	query := fmt.Sprintf(
		"UPDATE %s SET result=?, time=?, memory=?, pass_rate=?, judger=?, judgetime=now() WHERE solution_id=?",
		tbName,
	)
	_, err := db.Exec(query, result, time, memory, passRate, httpJudgerName, solutionID)
	if err != nil {
		return fmt.Errorf("更新提交状态失败: %v", err)
	}
	slog.Info("更新 Solution", "result", result, "time_ms", time, "memory_kb", memory, "pass_rate", passRate)
	return nil
}

// updateUser (使用 slog)
func updateUser(userID string) error {
	querySolved := "UPDATE `users` SET `solved`=(SELECT count(DISTINCT `problem_id`) FROM `solution` s WHERE s.`user_id`=? AND s.`result`=4 AND problem_id>0 AND problem_id NOT IN (SELECT problem_id FROM contest_problem WHERE contest_id IN (SELECT contest_id FROM contest WHERE contest_type & 16 > 0 AND end_time>now()))) WHERE `user_id`=?"
	if _, err := db.Exec(querySolved, userID, userID); err != nil {
		slog.Warn("更新用户 Solved 失败", "user_id", userID, "error", err)
	}

	querySubmit := "UPDATE `users` SET `submit`=(SELECT count(DISTINCT `problem_id`) FROM `solution` s WHERE s.`user_id`=? AND problem_id>0 AND problem_id NOT IN (SELECT problem_id FROM contest_problem WHERE contest_id IN (SELECT contest_id FROM contest WHERE contest_type & 16 > 0 AND end_time>now()))) WHERE `user_id`=?"
	if _, err := db.Exec(querySubmit, userID, userID); err != nil {
		slog.Warn("更新用户 Submit 失败", "user_id", userID, "error", err)
	}

	slog.Info("更新用户统计", "user_id", userID)
	return nil
}

// updateProblem (使用 slog)
func updateProblem(pID int, cID int) error {
	if cID > 0 {
		queryContestAccepted := "UPDATE `contest_problem` SET `c_accepted`=(SELECT count(*) FROM `solution` WHERE `problem_id`=? AND `result`=4 AND contest_id=?) WHERE `problem_id`=? AND contest_id=?"
		if _, err := db.Exec(queryContestAccepted, pID, cID, pID, cID); err != nil {
			slog.Warn("更新竞赛题目 Accepted 失败", "problem_id", pID, "contest_id", cID, "error", err)
		}
		queryContestSubmit := "UPDATE `contest_problem` SET `c_submit`=(SELECT count(*) FROM `solution` WHERE `problem_id`=? AND contest_id=?) WHERE `problem_id`=? AND contest_id=?"
		if _, err := db.Exec(queryContestSubmit, pID, cID, pID, cID); err != nil {
			slog.Warn("更新竞赛题目 Submit 失败", "problem_id", pID, "contest_id", cID, "error", err)
		}
	}

	queryProblemAccepted := "UPDATE `problem` SET `accepted`=(SELECT count(*) FROM `solution` s WHERE s.`problem_id`=? AND s.`result`=4 AND problem_id NOT IN (SELECT problem_id FROM contest_problem WHERE contest_id IN (SELECT contest_id FROM contest WHERE contest_type & 16 > 0 AND end_time>now()))) WHERE `problem_id`=?"
	if _, err := db.Exec(queryProblemAccepted, pID, pID); err != nil {
		slog.Warn("更新主题目 Accepted 失败", "problem_id", pID, "error", err)
	}

	slog.Info("更新题目统计", "problem_id", pID)
	return nil
}

// --- 核心功能 ---

// writeSourceCode (使用 slog)
func writeSourceCode(source string, lang int, workDir string) (string, error) {
	ext1, ok := langMaps[lang]
	if !ok {
		return "", fmt.Errorf("未知的语言 ID: %d", lang)
	}
	ext := ext1.Suffix
	fileName := fmt.Sprintf("Main%s", ext)
	filePath := filepath.Join(workDir, fileName)
	err := os.WriteFile(filePath, []byte(source), 0644)
	if err != nil {
		return "", fmt.Errorf("写入源代码失败: %v", err)
	}
	slog.Info("源代码已写入", "path", filePath)
	return filePath, nil
}

// compile invokes the judge core's Compile Stage directly, against a
// plain working directory with no chroot jail underneath it.
func compile(sourcePath string, timeoutMs int) judge.CompileOutcome {
	slog.Info("正在编译", "source", sourcePath)
	outcome := judge.Compile(sourcePath, sourcePath+".out", timeoutMs)
	slog.Info("编译完成", "status", outcome.Status, "time_ms", outcome.TimeUsedMs)
	return outcome
}

// addCEInfo 记录编译错误信息
func addCEInfo(solutionID int, msg string) error {
	slog.Info("正在记录编译错误信息", "solution_id", solutionID)
	_, err := db.Exec("DELETE FROM compileinfo WHERE solution_id=?", solutionID)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	_, err = db.Exec("INSERT INTO compileinfo VALUES(?, ?)", solutionID, msg)
	if err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	return nil
}

func findDataFiles(pID int) ([][]string, error) {
	dataDir := filepath.Join(ojHome, "data", strconv.Itoa(pID))
	slog.Info("正在扫描数据文件", "directory", dataDir)

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		// 如果目录不存在，这不是一个致命错误，只是意味着没有测试数据。
		if os.IsNotExist(err) {
			slog.Warn("数据目录不存在，未找到测试用例", "directory", dataDir)
			return [][]string{}, nil // 返回空切片，而不是错误
		}
		// 其他错误（例如权限问题）是致命的
		slog.Error("读取数据目录失败", "directory", dataDir, "error", err)
		return nil, fmt.Errorf("读取数据目录失败 %s: %v", dataDir, err)
	}

	var inFiles []string
	// 1. 查找所有 .in 文件
	for _, entry := range entries {
		// 忽略子目录
		if entry.IsDir() {
			continue
		}

		fileName := entry.Name()
		if filepath.Ext(fileName) == ".in" {
			inFiles = append(inFiles, fileName)
		}
	}

	// 2. 对 .in 文件进行排序，以确保判题顺序
	sort.Strings(inFiles)
	slog.Info("已找到 .in 文件", "count", len(inFiles))

	// 3. 构建配对
	var result [][]string
	for _, inFileName := range inFiles {
		inFullPath := filepath.Join(dataDir, inFileName)

		// 4. 构造对应的 .out 文件路径
		baseName := strings.TrimSuffix(inFileName, ".in")
		outFileName := baseName + ".out"
		outFullPath := filepath.Join(dataDir, outFileName)

		outPath := "" // 默认 .out 路径为空字符串

		// 5. 检查 .out 文件是否真实存在
		if _, err := os.Stat(outFullPath); err == nil {
			// 文件存在
			outPath = outFullPath
		} else if !os.IsNotExist(err) {
			// 如果错误不是 "不存在" (例如：权限问题)，则记录一个警告
			slog.Warn("无法访问 .out 文件 (将视为空)", "path", outFullPath, "error", err)
		}
		// 如果文件 os.IsNotExist(err)，outPath 保持为 ""

		// 6. 添加配对
		result = append(result, []string{inFullPath, outPath})
	}

	slog.Info("数据文件配对完成", "pairs", len(result))
	return result, nil
}
func findInName(pID int) string {
	inNameFile := filepath.Join(ojHome, "data", strconv.Itoa(pID), "input.name")
	bt, err := os.ReadFile(inNameFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(bt))
}
func findOutName(pID int) string {
	outNameFile := filepath.Join(ojHome, "data", strconv.Itoa(pID), "output.name")
	bt, err := os.ReadFile(outNameFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(bt))
}

// CopyFile copies the file from src to dst.
func CopyFile(src, dst string) error {
	// 1. 打开源文件
	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	// 2. 创建目标文件
	// 确保目标目录存在，如果不存在则创建
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	destinationFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destinationFile.Close()

	// 3. 使用 io.Copy 进行文件内容复制
	if _, err := io.Copy(destinationFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	// 4. 可选：复制文件权限
	sourceInfo, err := os.Stat(src)
	if err == nil { // 如果无法获取源文件信息，则忽略权限复制
		if err := os.Chmod(dst, sourceInfo.Mode()); err != nil {
			return fmt.Errorf("failed to set file permissions: %w", err)
		}
	}

	return nil
}

type RunConfig struct {
	Executable  string
	Workdir     string
	InFile      string
	OutFile     string
	InName      string
	OutName     string
	Timelimit   int
	MemoryLimit int
	Spj         int
}

// runAndCompare runs the compiled submission against one test case
// through the judge core and scores the result against the expected
// output, grounded on file_compare.go's compareFiles.
func runAndCompare(rcfg RunConfig) (result int, timeUsed int, memUsed int) {
	slog.Info("正在运行和比对", "in_file", rcfg.InFile, "out_file", rcfg.OutFile)

	stdinPath := rcfg.InFile
	if rcfg.InName != "" {
		stdinPath = filepath.Join(rcfg.Workdir, rcfg.InName)
		if err := CopyFile(rcfg.InFile, stdinPath); err != nil {
			slog.Error("复制输入文件失败", "error", err)
			return constants.OJ_SE, 0, 0
		}
	}

	limits := judge.Limits{
		TimeLimitMs:      rcfg.Timelimit,
		MemoryLimitBytes: int64(rcfg.MemoryLimit) * 1024 * 1024,
		OutputLimitBytes: judge.DefaultLimits().OutputLimitBytes,
		StackLimitBytes:  judge.DefaultLimits().StackLimitBytes,
	}

	jr, err := judge.RunAndClassify(rcfg.Executable, stdinPath, limits)
	if err != nil {
		slog.Error("运行判题核心失败", "error", err)
		return constants.OJ_SE, 0, 0
	}

	timeUsed = int(jr.TimeUsedMs)
	memUsed = int(jr.MemUsedBytes / 1024)
	result = statusToOJ(jr.Status)
	if result != constants.OJ_AC {
		return
	}

	usrOutPath := filepath.Join(rcfg.Workdir, "data.usr")
	if err := os.WriteFile(usrOutPath, []byte(jr.StdoutContent), 0644); err != nil {
		slog.Error("写入用户输出失败", "error", err)
		return constants.OJ_SE, timeUsed, memUsed
	}
	defer os.Remove(usrOutPath)

	if rcfg.Spj == 0 {
		res, cmpErr := compareFiles(rcfg.OutFile, usrOutPath)
		switch res {
		case 1:
			result = constants.OJ_PE
		case 2:
			result = constants.OJ_WA
		case 0:
			result = constants.OJ_AC
		}
		if cmpErr != nil {
			result = constants.OJ_RE
		}
		return
	}

	// SPJ mode: the special judge binary decides, invoked directly
	// (no re-exec protocol, no chroot jail to cross into).
	spjBin := filepath.Join(filepath.Dir(rcfg.OutFile), "spj")
	spjCtx, cancel := contextWithTimeout(rcfg.Timelimit)
	defer cancel()
	spjCmd := exec.CommandContext(spjCtx, spjBin, stdinPath, usrOutPath, rcfg.OutFile)
	if spjErr := spjCmd.Run(); spjErr != nil {
		result = constants.OJ_WA
	} else {
		result = constants.OJ_AC
	}
	return
}

// contextWithTimeout gives the special judge a generous multiple of the
// submission's own time limit, since it does comparison work on top of
// whatever the submission itself already spent.
func contextWithTimeout(timeLimitMs int) (context.Context, context.CancelFunc) {
	if timeLimitMs <= 0 {
		timeLimitMs = judge.DefaultLimits().TimeLimitMs
	}
	return context.WithTimeout(context.Background(), time.Duration(timeLimitMs)*4*time.Millisecond)
}

// addREInfo (Stub, 使用 slog)
func addREInfo(solutionID int) {
	_ = solutionID
	slog.Info("STUB: 添加运行错误信息")
}

// addDiffInfo (Stub, 使用 slog)
func addDiffInfo(solutionID int) {
	_ = solutionID
	slog.Info("STUB: 添加 Diff 详情")
}

// cleanWorkDir 清理工作目录
func cleanWorkDir(workDir string) {
	slog.Info("正在清理工作目录", "path", workDir)
	if err := os.RemoveAll(workDir); err != nil {
		slog.Warn("清理工作目录失败", "path", workDir, "error", err)
	}
}

// --- Main 工作流 ---

func Main() {
	// 0. 设置 slog
	// 使用 JSON Handler 以便进行结构化日志记录
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	var nArgs = os.Args[1:]

	// 1. 初始化参数
	if len(nArgs) < 3 {
		fmt.Println("用法: <> client <solution_id> <runner_id> [oj_home_path]")
		os.Exit(1)
	}

	debug := false
	if len(nArgs) > 4 && nArgs[4] == "DEBUG" {
		debug = true
	}

	solutionID, err := strconv.Atoi(nArgs[1])
	if err != nil {
		slog.Error("无效的 Solution ID", "input", nArgs[1])
		os.Exit(1)
	}

	// 使用 slog.With 创建一个包含 solution_id 的新 logger，并设为默认
	slog.SetDefault(slog.Default().With("solution_id", solutionID))

	runnerID := nArgs[2]
	homePath := "/home/judge"
	if len(nArgs) > 3 {
		homePath = nArgs[3]
	}

	slog.Info("开始判题", "runner_id", runnerID)

	// 2. 初始化配置和数据库
	initJudgeConf(homePath)
	if err := initMySQLConn(); err != nil {
		slog.Error("数据库初始化失败", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3. 读取语言支持列表
	langMaps = getLangMaps(filepath.Join(homePath, "etc", "langs", "all.toml"))

	// 4. 获取判题信息
	pID, userID, lang, cID, err := getSolutionInfo(solutionID)
	if err != nil {
		slog.Error("获取提交信息失败", "error", err)
		os.Exit(1)
	}
	slog.Info("获取信息", "problem_id", pID, "user_id", userID, "language", lang, "contest_id", cID)

	timeLimit, memLimit, spj, err := getProblemInfo(pID)
	if err != nil {
		slog.Error("获取题目信息失败", "error", err)
		os.Exit(1)
	}
	slog.Info("题目限制", "time_limit_s", timeLimit, "mem_limit_mb", memLimit, "spj", spj)

	// 工作目录是一个普通目录：判题核心自己通过 cgroup + rlimit 做隔离，
	// 不再需要为子进程准备 chroot 根目录。
	workBaseDir := filepath.Join(ojHome, "run"+runnerID)
	workdir := filepath.Join(workBaseDir, "code")
	if err := os.MkdirAll(workdir, 0777); err != nil {
		slog.Error("创建代码工作目录失败", "path", workdir, "err", err)
		os.Exit(1)
	}
	if !debug {
		defer cleanWorkDir(workBaseDir)
	}

	// 5. 获取并写入源代码
	source, err := getSolution(solutionID)
	if err != nil {
		slog.Error("获取源代码失败", "error", err)
		os.Exit(1)
	}
	sourcePath, err := writeSourceCode(source, lang, workdir)
	if err != nil {
		slog.Error("写入源代码失败", "error", err)
		os.Exit(1)
	}

	// 6. 编译
	if err := updateSolution(solutionID, constants.OJ_CI, 0, 0, 0.0); err != nil { // 设置为编译中
		slog.Warn("更新到 '编译中' 失败", "error", err)
	}

	compileResult := compile(sourcePath, judge.DefaultLimits().CompileTimeoutMs)
	if compileResult.Status != judge.StatusOK {
		slog.Info("编译失败", "output", compileResult.ErrorMsg)
		addCEInfo(solutionID, compileResult.ErrorMsg)
		if err := updateSolution(solutionID, constants.OJ_CE, 0, 0, 0.0); err != nil {
			slog.Error("更新 '编译失败' 状态失败", "error", err)
			os.Exit(1)
		}
		updateUser(userID)
		updateProblem(pID, cID)
		return
	}
	executable := sourcePath + ".out"
	if !debug {
		defer os.Remove(executable)
	}

	if err := updateSolution(solutionID, constants.OJ_RI, 0, 0, 0.0); err != nil { // 设置为运行中
		slog.Warn("更新到 '运行中' 失败", "error", err)
	}

	// 7. 运行和比对
	dataFiles, err := findDataFiles(pID)
	if err != nil {
		slog.Error("查找数据文件失败", "error", err)
		return
	}
	inName := findInName(pID)
	outName := findOutName(pID)
	var (
		totalTime  = 0
		peakMemory = 0
		passRate   = 0.0
		testCases  = float64(len(dataFiles))
	)

	var rCfg RunConfig = RunConfig{
		Executable: executable, Workdir: workdir,
		Timelimit: int(1000 * timeLimit), MemoryLimit: memLimit,
		InName: inName, OutName: outName,
		Spj: spj}

	var tot models.TotalResults
	tot.FinalResult = constants.OJ_AC

	for _, dataFile := range dataFiles {
		rCfg.InFile = dataFile[0]
		rCfg.OutFile = dataFile[1]

		result, timeUsed, memUsed := runAndCompare(rCfg)

		if timeUsed > totalTime {
			totalTime = timeUsed
		}
		if memUsed > peakMemory {
			peakMemory = memUsed
		}

		filename := filepath.Base(dataFile[0])
		if result != constants.OJ_AC {
			if tot.FinalResult == constants.OJ_AC {
				tot.FinalResult = result
			}
			tot.Results = append(tot.Results, models.OneResult{Result: result, Datafile: filename, Time: timeUsed, Mem: memUsed}) //nolint:all
			slog.Warn("测试点失败", "data_file", filename, "result", result)
			// break
		} else {
			tot.Results = append(tot.Results, models.OneResult{Result: result, Datafile: filename, Time: timeUsed, Mem: memUsed})
			passRate += 1.0
			slog.Info("测试点通过", "data_file", filename)
		}
	}

	// 8. 处理最终结果
	if testCases > 0 {
		passRate = passRate / testCases
	} else if tot.FinalResult == constants.OJ_AC {
		passRate = 1.0
	}

	switch tot.FinalResult {
	case constants.OJ_RE:
		addREInfo(solutionID)
	case constants.OJ_WA, constants.OJ_PE:
		addDiffInfo(solutionID)
	}

	// 9. 更新数据库
	slog.Info("判题完成", "final_result", tot.FinalResult, "total_time_ms", totalTime, "peak_mem_kb", peakMemory, "pass_rate", passRate) //nolint:all
	slog.Info("判题结果", "FF", tot)
	if err := updateSolution(solutionID, tot.FinalResult, totalTime, peakMemory, passRate); err != nil {
		slog.Error("更新最终判题结果失败", "error", err)
		os.Exit(1)
	}

	if err := updateUser(userID); err != nil {
		slog.Warn("更新用户统计失败", "error", err)
	}

	if err := updateProblem(pID, cID); err != nil {
		slog.Warn("更新题目统计失败", "error", err)
	}

	slog.Info("判题流程结束")
}
