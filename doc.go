/*
Package excel2google copies tabular data from an Excel workbook to a Google
Sheets worksheet, replacing the worksheet's contents wholesale on each run.

excel2google is intended to be run from the command line or a cron job. It
reads the first worksheet of the workbook (first row as header), optionally
projects it to a configured column list, clears the destination worksheet
and uploads the data in order-preserving chunks.

excel2google supports the following commands:

  - run, to clear the destination worksheet and upload the workbook data
    (--dry-run validates and reads the workbook without touching the sheet)
  - config, to persist the transfer settings to a KEY=value file
  - version, to display the current version
*/
package excel2google
