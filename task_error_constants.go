package main

const invalidTagConstraintExpression = 100
const noTagMatchesConstraint = 110

const projectNotResolvable = 300
const missingAccessToken = 310

const invalidTokenOrAccessDenied = 401
const resourceDoesNotExistOrAccessDenied = 404

const failedToDownloadFile = 500
const checksumDoesNotMatch = 510
const errorWhileComputingChecksum = 520
